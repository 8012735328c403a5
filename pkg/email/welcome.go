package email

import (
	"bytes"
	"html/template"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!doctype html>
<html>
<body>
<h1>Welcome, {{.Name}}!</h1>
<p>Your account has been created. You can now sign in with {{.Email}}.</p>
</body>
</html>`))

// Welcome builds the message sent after registration.
func Welcome(name, to string) (Message, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, struct{ Name, Email string }{name, to}); err != nil {
		return Message{}, err
	}
	return Message{
		To:       to,
		Subject:  "Welcome to the Auth API",
		BodyHTML: buf.String(),
		Tag:      "welcome",
	}, nil
}
