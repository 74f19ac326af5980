package gmail

import (
	"net/mail"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// displayLayout renders timestamps the way users see them in the tool
// output, e.g. "15 Mar 2024 (Friday), 02:30 PM".
const displayLayout = "02 Jan 2006 (Monday), 03:04 PM"

// istLocation is the timezone used for display dates. Falls back to a fixed
// UTC+5:30 zone if the tz database is unavailable.
var istLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}()

// Attachment identifies one attachment within a message. Large attachments
// carry an AttachmentID for a separate fetch; small ones arrive inline and
// carry their decoded content in Data instead.
type Attachment struct {
	MessageID    string
	AttachmentID string
	Filename     string
	MimeType     string
	Size         int64
	Data         []byte
}

// EmailDetail is the normalized view of one message with attachments.
type EmailDetail struct {
	ID        string
	Subject   string
	FromName  string
	FromEmail string

	// Date is the raw Date header value, kept verbatim for display fallback.
	Date string
	// DisplayDate is the IST-rendered date, or the raw header when the date
	// could not be parsed.
	DisplayDate string
	// SortKey is the parsed date in epoch milliseconds; only meaningful when
	// DateValid is true.
	SortKey   int64
	DateValid bool

	Attachments []*Attachment
}

// ParseEmailDetail normalizes a raw Gmail message into an EmailDetail.
// It never fails: missing headers yield empty fields and an unparsable Date
// header falls back to the raw string with DateValid false.
func ParseEmailDetail(msg *gmail.Message) *EmailDetail {
	detail := &EmailDetail{ID: msg.Id}
	if msg.Payload == nil {
		detail.Subject = "No Subject"
		return detail
	}

	detail.Subject = HeaderValue(msg, "Subject")
	if detail.Subject == "" {
		detail.Subject = "No Subject"
	}

	from := HeaderValue(msg, "From")
	detail.FromName, detail.FromEmail = splitFrom(from)

	detail.Date = HeaderValue(msg, "Date")
	detail.DisplayDate = detail.Date
	if t, err := mail.ParseDate(detail.Date); err == nil {
		detail.SortKey = t.UnixMilli()
		detail.DateValid = true
		detail.DisplayDate = t.In(istLocation).Format(displayLayout)
	}

	walkParts(msg.Payload, func(part *gmail.MessagePart) {
		if part.Filename == "" || part.Body == nil {
			return
		}
		att := &Attachment{
			MessageID: msg.Id,
			Filename:  part.Filename,
			MimeType:  part.MimeType,
			Size:      part.Body.Size,
		}
		switch {
		case part.Body.AttachmentId != "":
			att.AttachmentID = part.Body.AttachmentId
		case part.Body.Data != "":
			data, err := decodeBody(part.Body.Data)
			if err != nil {
				return
			}
			att.Data = data
		default:
			return
		}
		detail.Attachments = append(detail.Attachments, att)
	})

	return detail
}

// ParsedTime returns the message time in IST. ok is false when the Date
// header could not be parsed.
func (e *EmailDetail) ParsedTime() (t time.Time, ok bool) {
	if !e.DateValid {
		return time.Time{}, false
	}
	return time.UnixMilli(e.SortKey).In(istLocation), true
}

// HeaderValue returns the value of the first header with the given name.
// Header names are matched exactly.
func HeaderValue(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// splitFrom splits a From header into display name and address.
// "Jane Doe <jane@example.com>" yields ("Jane Doe", "jane@example.com");
// a bare address yields itself as the name and an empty address.
func splitFrom(from string) (name, email string) {
	open := strings.Index(from, "<")
	if open < 0 {
		return strings.TrimSpace(from), ""
	}
	name = strings.TrimSpace(from[:open])
	rest := from[open+1:]
	if close := strings.Index(rest, ">"); close >= 0 {
		email = rest[:close]
	}
	return name, email
}
