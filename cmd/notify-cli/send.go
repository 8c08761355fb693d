package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	sendTo       string
	sendTemplate string
	sendParams   []string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Fire a test email through the gateway",
	Run: func(cmd *cobra.Command, args []string) {
		personalisation := make(map[string]string, len(sendParams))
		for _, p := range sendParams {
			for i := 0; i < len(p); i++ {
				if p[i] == '=' {
					personalisation[p[:i]] = p[i+1:]
					break
				}
			}
		}

		req := map[string]any{
			"email_address":   sendTo,
			"template_id":     sendTemplate,
			"personalisation": personalisation,
		}
		var out map[string]any
		if err := apiRequest("POST", "/gc-notify/v2/notifications/email", req, &out); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Notification accepted:")
		printJSON(out)
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient email address")
	sendCmd.Flags().StringVar(&sendTemplate, "template", "", "template id")
	sendCmd.Flags().StringArrayVar(&sendParams, "param", nil, "personalisation value as key=value (repeatable)")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("template")

	rootCmd.AddCommand(sendCmd)
}
