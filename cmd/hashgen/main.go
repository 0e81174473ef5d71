// Command hashgen generates a bcrypt hash for manual insertion of admin
// users into the users table.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	fmt.Println("ParkMate Password Hash Generator")
	fmt.Print("Enter password to hash: ")

	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password = strings.TrimRight(password, "\r\n")

	if len(password) < 6 {
		log.Fatal("Password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to generate hash: %v", err)
	}

	fmt.Println("\nHashed password (copy this):")
	fmt.Println(string(hash))
}
