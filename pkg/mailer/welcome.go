package mailer

import (
	"bytes"
	"fmt"
	htmpl "html/template"
)

var welcomeTmpl = htmpl.Must(htmpl.New("welcome").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Welcome to {{.AppName}}, {{.Name}}!</h2>
  <p>Your account <strong>{{.Email}}</strong> has been created.</p>
  <p>Browse the activity catalog, pick something you like and join in.</p>
</body>
</html>`))

// RenderWelcome renders the welcome email for a freshly registered user.
func RenderWelcome(data map[string]any) (subject, text, html string, err error) {
	var buf bytes.Buffer
	if err = welcomeTmpl.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	subject = fmt.Sprintf("Welcome to %v", data["AppName"])
	text = fmt.Sprintf("Welcome to %v, %v! Your account %v has been created.",
		data["AppName"], data["Name"], data["Email"])
	return subject, text, buf.String(), nil
}
