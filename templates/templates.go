// Package templates renders the HTML bodies of outgoing emails. Every value is
// interpolated through html/template, so user input is always escaped.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed *.html
var files embed.FS

var set = template.Must(template.New("emails").Funcs(template.FuncMap{
	"nl2br": nl2br,
}).ParseFS(files, "*.html"))

// ContactData is the view model for contact.html.
type ContactData struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// PurchaseData is the view model for purchase.html.
type PurchaseData struct {
	ProductName  string
	DownloadURL  string
	SupportEmail string
	ExpiresIn    string
}

func RenderContact(data ContactData) (string, error) {
	return render("contact.html", data)
}

func RenderPurchase(data PurchaseData) (string, error) {
	return render("purchase.html", data)
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("template render failed: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// nl2br escapes s and turns line breaks into <br/>.
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br/>"))
}
