package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var senderCmd = &cobra.Command{
	Use:   "sender",
	Short: "Manage sender identities",
}

var senderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List senders",
	Run: func(cmd *cobra.Command, args []string) {
		var out map[string]any
		if err := apiRequest("GET", "/v1/senders", nil, &out); err != nil {
			fmt.Println("Error:", err)
			return
		}
		printJSON(out)
	},
}

var (
	senderType    string
	senderEmail   string
	senderSMS     string
	senderDefault bool
)

var senderCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a sender",
	Run: func(cmd *cobra.Command, args []string) {
		req := map[string]any{
			"type":       senderType,
			"is_default": senderDefault,
		}
		if senderEmail != "" {
			req["email_address"] = senderEmail
		}
		if senderSMS != "" {
			req["sms_sender"] = senderSMS
		}
		var out map[string]any
		if err := apiRequest("POST", "/v1/senders", req, &out); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Sender created:")
		printJSON(out)
	},
}

func init() {
	senderCreateCmd.Flags().StringVar(&senderType, "type", "email", "sender type (email, sms or email+sms)")
	senderCreateCmd.Flags().StringVar(&senderEmail, "email", "", "sender email address")
	senderCreateCmd.Flags().StringVar(&senderSMS, "sms", "", "SMS sender id or number")
	senderCreateCmd.Flags().BoolVar(&senderDefault, "default", false, "make this the channel default")

	senderCmd.AddCommand(senderListCmd, senderCreateCmd)
	rootCmd.AddCommand(senderCmd)
}
