package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"
)

//
// ===========================================================
//  TYPES
// ===========================================================
//

// CheckInNotice is everything the check-in email needs. It is also the outbox
// payload, so it must stay JSON-round-trippable.
type CheckInNotice struct {
	PassID           string     `json:"passId"`
	VisitorName      string     `json:"visitorName"`
	VisitorContactNo string     `json:"visitorContactNo"`
	VisitorEmail     string     `json:"visitorEmail"`
	VisitorPhoto     string     `json:"visitorPhoto,omitempty"`
	Company          string     `json:"company,omitempty"`
	City             string     `json:"city,omitempty"`
	AllowOn          time.Time  `json:"allowOn"`
	AllowTill        *time.Time `json:"allowTill,omitempty"`
	DepartmentName   string     `json:"departmentName,omitempty"`
	EmployeeName     string     `json:"employeeName,omitempty"`
	PurposeOfVisit   string     `json:"purposeOfVisit,omitempty"`

	To string   `json:"to"`
	CC []string `json:"cc,omitempty"`
}

// InsideVisitor is one roster line of the "still inside" sweep email.
type InsideVisitor struct {
	VisitorName    string    `json:"visitorName"`
	ContactNo      string    `json:"contactNo"`
	Company        string    `json:"company"`
	DepartmentName string    `json:"departmentName"`
	EmployeeName   string    `json:"employeeName"`
	CheckInTime    time.Time `json:"checkInTime"`
}

//
// ===========================================================
//  SMTP CONFIG
// ===========================================================
//

type smtpConfig struct {
	host, port, user, pass, fromName string
}

func loadSMTPConfig() smtpConfig {
	return smtpConfig{
		host:     EnvOrDefault("SMTP_HOST", ""),
		port:     EnvOrDefault("SMTP_PORT", ""),
		user:     EnvOrDefault("SMTP_USERNAME", ""),
		pass:     EnvOrDefault("SMTP_PASSWORD", ""),
		fromName: EnvOrDefault("SMTP_FROM_NAME", "Visitor Management System"),
	}
}

func (c smtpConfig) configured() bool {
	return c.host != "" && c.port != "" && c.user != "" && c.pass != ""
}

//
// ===========================================================
//  CHECK-IN NOTIFICATION EMAIL
// ===========================================================
//

// SendCheckInEmail sends the check-in notification to the host employee with
// the fixed CC set. DEV fallback: when SMTP is not configured the send is
// mocked with a log line and reported as success.
func SendCheckInEmail(n CheckInNotice) error {
	if strings.TrimSpace(n.To) == "" {
		return fmt.Errorf("missing recipient email")
	}

	cfg := loadSMTPConfig()
	if !cfg.configured() {
		log.Printf("[MOCK EMAIL] check-in pass:%s to:%s cc:%v visitor:%s",
			n.PassID, n.To, n.CC, n.VisitorName)
		return nil
	}

	subject := fmt.Sprintf("Visitor Pass Generated for %s", n.VisitorName)

	allowTill := "N/A"
	if n.AllowTill != nil {
		allowTill = n.AllowTill.Format("02 Jan 2006 15:04")
	}

	plainBody := fmt.Sprintf(
		"Visitor checked in.\n\n"+
			"Name: %s\nContact: %s\nEmail: %s\nCompany: %s\nCity: %s\n\n"+
			"Pass ID: %s\nAllow On: %s\nAllow Till: %s\n"+
			"Department: %s\nEmployee: %s\nPurpose: %s\n",
		n.VisitorName, n.VisitorContactNo, n.VisitorEmail, orNA(n.Company), orNA(n.City),
		n.PassID, n.AllowOn.Format("02 Jan 2006 15:04"), allowTill,
		orNA(n.DepartmentName), orNA(n.EmployeeName), orNA(n.PurposeOfVisit),
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Visitor Pass Notification</title></head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f0f0f0;">
<table width="600" cellpadding="0" cellspacing="0" align="center"
       style="background:#ffffff;border:1px solid #ddd;border-radius:8px;margin-top:20px;">
  <tr><td style="background:#2575fc;color:#fff;padding:20px;text-align:center;">
    <h2 style="margin:0">Visitor Pass Notification</h2></td></tr>
  <tr><td style="padding:20px;">
    <table width="100%%" cellpadding="0" cellspacing="0"><tr>
      <td width="50%%" align="center" valign="middle">
        <img src="%s" alt="Visitor" width="150" height="150"
             style="border-radius:50%%;object-fit:cover;"/></td>
      <td width="50%%" valign="top" style="font-size:14px;color:#333;">
        <p><strong>Name:</strong> %s</p>
        <p><strong>Contact:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <p><strong>Company:</strong> %s</p>
        <p><strong>City:</strong> %s</p></td>
    </tr></table></td></tr>
  <tr><td style="background:#f4f4f4;padding:20px;font-size:14px;color:#555;">
    <p><strong>Pass ID:</strong> %s</p>
    <p><strong>Allow On:</strong> %s</p>
    <p><strong>Allow Till:</strong> %s</p>
    <p><strong>Department to Visit:</strong> %s</p>
    <p><strong>Employee to Visit:</strong> %s</p>
    <p><strong>Purpose of Visit:</strong> %s</p></td></tr>
  <tr><td style="background:#f9f9f9;text-align:center;padding:10px;font-size:12px;color:#666;">
    &copy; %d %s &mdash; This is an automated message.</td></tr>
</table>
</body>
</html>`,
		htmlEscape(n.VisitorPhoto), htmlEscape(n.VisitorName), htmlEscape(n.VisitorContactNo),
		htmlEscape(n.VisitorEmail), htmlEscape(orNA(n.Company)), htmlEscape(orNA(n.City)),
		htmlEscape(n.PassID), n.AllowOn.Format("02 Jan 2006 15:04"), allowTill,
		htmlEscape(orNA(n.DepartmentName)), htmlEscape(orNA(n.EmployeeName)),
		htmlEscape(orNA(n.PurposeOfVisit)),
		time.Now().Year(), htmlEscape(cfg.fromName),
	)

	return sendMultipart(cfg, n.To, n.CC, subject, plainBody, htmlBody)
}

//
// ===========================================================
//  CURRENTLY-INSIDE SWEEP EMAIL
// ===========================================================
//

// SendInsideRosterEmail mails the security distribution the plain-text roster
// of visitors still on premises.
func SendInsideRosterEmail(to string, visitors []InsideVisitor) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("missing recipient email")
	}

	cfg := loadSMTPConfig()
	if !cfg.configured() {
		log.Printf("[MOCK EMAIL] currently-inside to:%s visitors:%d", to, len(visitors))
		return nil
	}

	var lines strings.Builder
	for _, v := range visitors {
		lines.WriteString(fmt.Sprintf("- %s (%s) — %s — In at %s\n",
			v.VisitorName, orNA(v.Company), orNA(v.DepartmentName),
			v.CheckInTime.Format("02 Jan 2006 15:04")))
	}

	body := fmt.Sprintf(
		"Dear Team,\n\nThe following visitors are still inside the premises:\n\n%s\nRegards,\n%s\n",
		lines.String(), cfg.fromName,
	)

	return sendMultipart(cfg, to, nil, "Visitors Currently Inside", body, "")
}

//
// ===========================================================
//  TRANSPORT
// ===========================================================
//

func sendMultipart(cfg smtpConfig, to string, cc []string, subject, plainBody, htmlBody string) error {
	from := fmt.Sprintf("%s <%s>", cfg.fromName, cfg.user)
	rcpts := []string{to}
	for _, addr := range cc {
		if strings.TrimSpace(addr) != "" {
			rcpts = append(rcpts, addr)
		}
	}

	boundary := "----=_VMS_EMAIL_BOUNDARY"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	if len(rcpts) > 1 {
		sb.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(rcpts[1:], ", ")))
	}
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")

	if htmlBody == "" {
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(plainBody + "\r\n")
	} else {
		sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))
		sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(plainBody + "\r\n")
		sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		sb.WriteString(htmlBody + "\r\n")
		sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	}

	auth := smtp.PlainAuth("", cfg.user, cfg.pass, cfg.host)
	addr := fmt.Sprintf("%s:%s", cfg.host, cfg.port)

	if err := smtp.SendMail(addr, auth, cfg.user, rcpts, []byte(sb.String())); err != nil {
		log.Printf("❌ Failed to send email to %s: %v", to, err)
		return err
	}

	log.Printf("📨 Email sent to %s (cc: %d)", to, len(rcpts)-1)
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// minimal html escaper for the small strings we use
func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
