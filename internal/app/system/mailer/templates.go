// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// IDCardFoundData holds data for the found-ID-card notification.
type IDCardFoundData struct {
	SiteName    string
	SiteURL     string
	OwnerName   string
	RollNumber  string // as entered by the finder
	Location    string
	FinderEmail string
	FinderPhone string // optional
}

// BuildIDCardFoundEmail creates the notification sent to the registered
// owner of a roll number when someone reports their ID card found.
func BuildIDCardFoundEmail(data IDCardFoundData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Good news! Your ID card has been found on %s", data.SiteName),
		TextBody: buildIDCardFoundText(data),
		HTMLBody: buildIDCardFoundHTML(data),
	}
}

func buildIDCardFoundText(data IDCardFoundData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Dear %s,\n\n", data.OwnerName))
	buf.WriteString(fmt.Sprintf("Someone has found and reported your ID card on %s.\n\n", data.SiteName))
	buf.WriteString(fmt.Sprintf("Roll number: %s\n", data.RollNumber))
	buf.WriteString(fmt.Sprintf("Found at: %s\n", data.Location))
	buf.WriteString(fmt.Sprintf("Reported by: %s\n", data.FinderEmail))
	if data.FinderPhone != "" {
		buf.WriteString(fmt.Sprintf("Phone: %s\n", data.FinderPhone))
	}
	buf.WriteString("\nContact the finder to arrange collection, and bring something to verify your identity.\n\n")
	buf.WriteString(data.SiteURL + "\n")
	return buf.String()
}

func buildIDCardFoundHTML(data IDCardFoundData) string {
	tmpl := template.Must(template.New("idcardfound").Parse(idCardFoundHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

// WelcomeData holds data for the post-onboarding welcome email.
type WelcomeData struct {
	SiteName   string
	SiteURL    string
	UserName   string
	RollNumber string // display form
}

// BuildWelcomeEmail creates the email sent once a user completes their
// profile with a roll number.
func BuildWelcomeEmail(data WelcomeData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Welcome to %s", data.SiteName),
		TextBody: buildWelcomeText(data),
		HTMLBody: buildWelcomeHTML(data),
	}
}

func buildWelcomeText(data WelcomeData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Dear %s,\n\n", data.UserName))
	buf.WriteString("Thank you for completing your profile. Your account is now fully set up.\n\n")
	buf.WriteString(fmt.Sprintf("Roll number: %s\n\n", data.RollNumber))
	buf.WriteString("You can now report lost and found items, search the feed, and you will be notified automatically if someone finds your ID card.\n\n")
	buf.WriteString(data.SiteURL + "\n")
	return buf.String()
}

func buildWelcomeHTML(data WelcomeData) string {
	tmpl := template.Must(template.New("welcome").Parse(welcomeHTMLTemplate))
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}

const idCardFoundHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>ID Card Found</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f3f4f6;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #1e3a8a; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0;">
      <h1 style="margin: 0; font-size: 22px;">Good News! Your ID Card Has Been Found</h1>
    </div>
    <div style="background: #f8fafc; padding: 30px; border-radius: 0 0 8px 8px;">
      <p>Dear {{.OwnerName}},</p>
      <p>Someone has found and reported your ID card on {{.SiteName}}.</p>
      <div style="background: #fef3c7; padding: 15px; border-left: 4px solid #f59e0b; margin: 20px 0;">
        <strong>Roll number:</strong> {{.RollNumber}}<br>
        <strong>Found at:</strong> {{.Location}}<br>
        <strong>Reported by:</strong> {{.FinderEmail}}{{if .FinderPhone}}<br>
        <strong>Phone:</strong> {{.FinderPhone}}{{end}}
      </div>
      <p><strong>What to do next:</strong></p>
      <ol>
        <li>Contact the finder at <a href="mailto:{{.FinderEmail}}">{{.FinderEmail}}</a></li>
        <li>Arrange to collect your ID card</li>
        <li>Verify your identity when collecting</li>
      </ol>
      <a href="{{.SiteURL}}" style="display: inline-block; background: #f59e0b; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 20px 0;">View on {{.SiteName}}</a>
    </div>
    <div style="text-align: center; margin-top: 20px; color: #64748b; font-size: 14px;">
      <p>{{.SiteName}}</p>
    </div>
  </div>
</body>
</html>`

const welcomeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Welcome</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f3f4f6;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #1e3a8a; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0;">
      <h1 style="margin: 0; font-size: 22px;">Welcome to {{.SiteName}}</h1>
    </div>
    <div style="background: #f8fafc; padding: 30px; border-radius: 0 0 8px 8px;">
      <p>Dear {{.UserName}},</p>
      <p>Thank you for completing your profile. Your account is now fully set up.</p>
      <p><strong>Roll number:</strong> {{.RollNumber}}</p>
      <p><strong>What you can do now:</strong></p>
      <ul>
        <li>Report lost items</li>
        <li>Report found items</li>
        <li>Search for your lost belongings</li>
        <li>Get notified when your ID card is found</li>
      </ul>
      <a href="{{.SiteURL}}" style="display: inline-block; background: #f59e0b; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 20px 0;">Start using {{.SiteName}}</a>
    </div>
    <div style="text-align: center; margin-top: 20px; color: #64748b; font-size: 14px;">
      <p>{{.SiteName}}</p>
    </div>
  </div>
</body>
</html>`
