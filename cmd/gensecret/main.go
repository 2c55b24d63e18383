package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// Length of the generated SECRET_KEY in bytes
const secretKeyBytesLen = 32

func main() {
	b := make([]byte, secretKeyBytesLen)

	_, err := rand.Read(b)
	if err != nil {
		fmt.Printf("error while generating secret key: %v", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(b))
}
