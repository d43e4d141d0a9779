package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/AFCApps2025/afc-backend/models"
)

// waClient is shared so connections are reused; the gateway gets a short
// timeout because customer messaging must never hold up a workflow.
var waClient = &http.Client{Timeout: 10 * time.Second}

type waPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendWhatsApp posts one message to the WhatsApp gateway. Callers treat a
// returned error as log-and-continue; nothing downstream depends on delivery.
func SendWhatsApp(phone, message string) error {
	baseURL := os.Getenv("WA_API_URL")
	apiKey := os.Getenv("WA_API_KEY")
	if baseURL == "" || apiKey == "" {
		return fmt.Errorf("WhatsApp gateway not configured")
	}
	if phone == "" {
		return fmt.Errorf("empty recipient phone")
	}

	body, err := json.Marshal(waPayload{Phone: phone, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := waClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned %s", resp.Status)
	}
	return nil
}

var confirmTmpl = template.Must(template.New("confirm").Parse(
	`Halo {{.CustomerName}}, booking {{.BookingCode}} sudah dikonfirmasi untuk {{.Date}} jam {{.VisitTime}}. Teknisi: {{.TechnicianCode}}. Terima kasih - AFC Service`))

var rescheduleTmpl = template.Must(template.New("reschedule").Parse(
	`Halo {{.CustomerName}}, jadwal booking {{.BookingCode}} diubah ke {{.Date}} jam {{.VisitTime}}.{{if .Note}} Catatan: {{.Note}}.{{end}} Mohon konfirmasinya - AFC Service`))

var rejectionTmpl = template.Must(template.New("rejection").Parse(
	`Halo {{.CustomerName}}, laporan pekerjaan untuk booking {{.BookingCode}} belum dapat kami verifikasi. Alasan: {{.Note}}. Teknisi kami akan menghubungi Anda untuk tindak lanjut - AFC Service`))

type messageContext struct {
	CustomerName   string
	BookingCode    string
	Date           string
	VisitTime      string
	TechnicianCode string
	Note           string
}

func renderMessage(tmpl *template.Template, ctx messageContext) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		// Template inputs are our own structs; a failure here is a bug, but a
		// raw fallback message still beats silence.
		return fmt.Sprintf("Booking %s: jadwal diperbarui", ctx.BookingCode)
	}
	return buf.String()
}

// ComposeConfirmMessage builds the confirmation text sent when a booking is
// confirmed.
func ComposeConfirmMessage(b models.Booking) string {
	return renderMessage(confirmTmpl, messageContext{
		CustomerName:   b.CustomerName,
		BookingCode:    b.BookingCode,
		Date:           time.Time(b.VisitDate).Format("02-01-2006"),
		VisitTime:      b.VisitTime,
		TechnicianCode: b.TechnicianCode,
	})
}

// ComposeRescheduleMessage builds the text sent when a visit is moved.
func ComposeRescheduleMessage(b models.Booking) string {
	return renderMessage(rescheduleTmpl, messageContext{
		CustomerName: b.CustomerName,
		BookingCode:  b.BookingCode,
		Date:         time.Time(b.VisitDate).Format("02-01-2006"),
		VisitTime:    b.VisitTime,
		Note:         b.RescheduleNote,
	})
}

// ComposeRejectionMessage builds the customer notice sent when a work report
// is rejected during verification.
func ComposeRejectionMessage(bookingCode, reason string, reports []models.WorkReport) string {
	name := ""
	if len(reports) > 0 {
		name = reports[0].CustomerName
	}
	return renderMessage(rejectionTmpl, messageContext{
		CustomerName: name,
		BookingCode:  bookingCode,
		Note:         reason,
	})
}

// ComposeApprovalMessage summarizes the approved work across all units of a
// booking for the customer.
func ComposeApprovalMessage(bookingCode string, reports []models.WorkReport) string {
	var sb strings.Builder
	name := ""
	if len(reports) > 0 {
		name = reports[0].CustomerName
	}
	fmt.Fprintf(&sb, "Halo %s, pekerjaan untuk booking %s sudah selesai dan diverifikasi.\n", name, bookingCode)
	for _, rep := range reports {
		fmt.Fprintf(&sb, "- Unit %d", rep.UnitNumber)
		if rep.Brand != "" {
			fmt.Fprintf(&sb, " (%s", rep.Brand)
			if rep.ModelSpec != "" {
				fmt.Fprintf(&sb, " %s", rep.ModelSpec)
			}
			sb.WriteString(")")
		}
		if rep.ConditionNotes != "" {
			fmt.Fprintf(&sb, ": %s", rep.ConditionNotes)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Terima kasih telah menggunakan AFC Service.")
	return sb.String()
}
