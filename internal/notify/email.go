package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/k3a/html2text"

	"LabKeeper/internal/model"
)

var emailTmpl = template.Must(template.New("email").Parse(`<html>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto;">
    <div style="background-color: {{.ActionColor}}; color: white; padding: 15px 20px; border-radius: 5px 5px 0 0;">
      <h2 style="margin: 0;">Lab Inventory Management</h2>
    </div>
    <div style="border: 1px solid #ddd; border-top: none; padding: 20px; border-radius: 0 0 5px 5px;">
      <h3 style="color: {{.ActionColor}}; margin-top: 0;">{{.ActionLabel}}</h3>
      <table style="border-collapse: collapse; width: 100%;">
        <tr style="background-color: #f8f9fa;">
          <td style="padding: 10px; border: 1px solid #ddd; width: 40%;"><strong>Action</strong></td>
          <td style="padding: 10px; border: 1px solid #ddd;">{{.ActionLabel}}</td>
        </tr>
        <tr>
          <td style="padding: 10px; border: 1px solid #ddd;"><strong>Item</strong></td>
          <td style="padding: 10px; border: 1px solid #ddd;">{{.ItemName}}</td>
        </tr>
        <tr style="background-color: #f8f9fa;">
          <td style="padding: 10px; border: 1px solid #ddd;"><strong>Location</strong></td>
          <td style="padding: 10px; border: 1px solid #ddd;">{{.CupboardName}}</td>
        </tr>
        <tr>
          <td style="padding: 10px; border: 1px solid #ddd;"><strong>{{.PersonLabel}}</strong></td>
          <td style="padding: 10px; border: 1px solid #ddd;">{{.NTID}}</td>
        </tr>
        <tr style="background-color: #f8f9fa;">
          <td style="padding: 10px; border: 1px solid #ddd;"><strong>Date &amp; Time</strong></td>
          <td style="padding: 10px; border: 1px solid #ddd;">{{.Timestamp}}</td>
        </tr>
      </table>
      <br>
      <p style="color: #888; font-size: 12px;">This is an automated notification from Lab Inventory Management Tool.</p>
    </div>
  </div>
</body>
</html>`))

type emailData struct {
	ActionLabel  string
	ActionColor  string
	PersonLabel  string
	ItemName     string
	CupboardName string
	NTID         string
	Timestamp    string
}

// renderEmail собирает тему и тело письма по событию. При useHTML=false
// тело приводится к plain text для почтовых серверов без HTML.
func renderEmail(e Event, useHTML bool) (subject, body string) {
	data := emailData{
		ItemName:     e.ItemName,
		CupboardName: e.CupboardName,
		NTID:         e.NTID,
		Timestamp:    e.At.Format("2006-01-02 15:04:05"),
	}
	if e.Action == model.ActionUnlocked {
		subject = fmt.Sprintf("[Lab Inventory] Item Borrowed: %s", e.ItemName)
		data.ActionLabel = "Item Borrowed (Unlocked)"
		data.ActionColor = "#e20015"
		data.PersonLabel = "Borrowed By (NT ID)"
	} else {
		subject = fmt.Sprintf("[Lab Inventory] Item Returned: %s", e.ItemName)
		data.ActionLabel = "Item Returned (Locked)"
		data.ActionColor = "#00884b"
		data.PersonLabel = "Returned By (NT ID)"
	}

	var buf bytes.Buffer
	_ = emailTmpl.Execute(&buf, data)
	body = buf.String()
	if !useHTML {
		body = html2text.HTML2Text(body)
	}
	return subject, body
}
