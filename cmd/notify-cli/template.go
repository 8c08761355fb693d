package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Run: func(cmd *cobra.Command, args []string) {
		var out map[string]any
		if err := apiRequest("GET", "/templates", nil, &out); err != nil {
			fmt.Println("Error:", err)
			return
		}
		printJSON(out)
	},
}

var (
	templateName    string
	templateType    string
	templateSubject string
	templateBody    string
	templateEngine  string
)

var templateCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a template",
	Run: func(cmd *cobra.Command, args []string) {
		req := map[string]any{
			"name": templateName,
			"type": templateType,
			"body": templateBody,
		}
		if templateSubject != "" {
			req["subject"] = templateSubject
		}
		if templateEngine != "" {
			req["engine"] = templateEngine
		}
		var out map[string]any
		if err := apiRequest("POST", "/templates", req, &out); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Template created:")
		printJSON(out)
	},
}

func init() {
	templateCreateCmd.Flags().StringVar(&templateName, "name", "", "template name")
	templateCreateCmd.Flags().StringVar(&templateType, "type", "email", "template type (email or sms)")
	templateCreateCmd.Flags().StringVar(&templateSubject, "subject", "", "email subject")
	templateCreateCmd.Flags().StringVar(&templateBody, "body", "", "template body")
	templateCreateCmd.Flags().StringVar(&templateEngine, "engine", "", "template engine (jinja2, handlebars, mustache, gotemplate)")
	templateCreateCmd.MarkFlagRequired("name")
	templateCreateCmd.MarkFlagRequired("body")

	templateCmd.AddCommand(templateListCmd, templateCreateCmd)
	rootCmd.AddCommand(templateCmd)
}
