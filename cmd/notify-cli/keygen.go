package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcgov/notify/pkg/apikey"
)

var keygenSecret string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a gateway API key",
	Run: func(cmd *cobra.Command, args []string) {
		key, hash, err := apikey.GenerateKey("notify", keygenSecret)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("API key:", key)
		fmt.Println("HMAC-SHA256:", hash)
		fmt.Println("Set API_KEY on the gateway to the key above.")
	},
}

func init() {
	keygenCmd.Flags().StringVar(&keygenSecret, "secret", "notify", "HMAC secret used for the stored hash")
	rootCmd.AddCommand(keygenCmd)
}
