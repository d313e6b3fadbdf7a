package email

// PreviewData holds sample values for rendering each template by hand.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName":  "Ada Lovelace",
		"UserEmail": "ada@example.com",
	},
}
