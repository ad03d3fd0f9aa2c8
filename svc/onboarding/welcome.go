package onboarding

import (
	"bytes"
	"fmt"
	"html/template"
)

type welcomeData struct {
	FirstName        string
	OrganizationName string
	RoleTitle        string
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1a202c;">
  <h1>Welcome aboard{{if .FirstName}}, {{.FirstName}}{{end}}!</h1>
  <p>
    Your onboarding{{if .OrganizationName}} for <strong>{{.OrganizationName}}</strong>{{end}}
    is complete and your account is ready to use.
  </p>
  {{if .RoleTitle}}<p>You have been set up as <strong>{{.RoleTitle}}</strong>.</p>{{end}}
  <p>You can now sign in and start working with letters of credit.</p>
</body>
</html>
`))

func renderWelcome(d welcomeData) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render welcome email: %w", err)
	}
	return buf.String(), nil
}
