package gmail

import (
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func msgWithHeaders(id string, headers map[string]string) *gmail.Message {
	var hs []*gmail.MessagePartHeader
	for name, value := range headers {
		hs = append(hs, &gmail.MessagePartHeader{Name: name, Value: value})
	}
	return &gmail.Message{
		Id:      id,
		Payload: &gmail.MessagePart{Headers: hs},
	}
}

func TestParseEmailDetailHeaders(t *testing.T) {
	msg := msgWithHeaders("m1", map[string]string{
		"Subject": "March Inventory",
		"From":    "Jane Doe <jane@example.com>",
		"Date":    "Fri, 15 Mar 2024 09:00:00 +0000",
	})

	detail := ParseEmailDetail(msg)

	if detail.ID != "m1" {
		t.Errorf("ID = %q, want %q", detail.ID, "m1")
	}
	if detail.Subject != "March Inventory" {
		t.Errorf("Subject = %q, want %q", detail.Subject, "March Inventory")
	}
	if detail.FromName != "Jane Doe" {
		t.Errorf("FromName = %q, want %q", detail.FromName, "Jane Doe")
	}
	if detail.FromEmail != "jane@example.com" {
		t.Errorf("FromEmail = %q, want %q", detail.FromEmail, "jane@example.com")
	}
	if !detail.DateValid {
		t.Error("DateValid should be true for a parseable date")
	}
	// 09:00 UTC is 14:30 IST
	want := "15 Mar 2024 (Friday), 02:30 PM"
	if detail.DisplayDate != want {
		t.Errorf("DisplayDate = %q, want %q", detail.DisplayDate, want)
	}
}

func TestParseEmailDetailMissingHeaders(t *testing.T) {
	detail := ParseEmailDetail(msgWithHeaders("m2", nil))

	if detail.Subject != "No Subject" {
		t.Errorf("Subject = %q, want %q", detail.Subject, "No Subject")
	}
	if detail.FromName != "" || detail.FromEmail != "" {
		t.Errorf("From fields should be empty, got %q / %q", detail.FromName, detail.FromEmail)
	}
	if detail.DateValid {
		t.Error("DateValid should be false without a Date header")
	}
}

func TestParseEmailDetailUnparsableDate(t *testing.T) {
	msg := msgWithHeaders("m3", map[string]string{
		"Date": "sometime last week",
	})

	detail := ParseEmailDetail(msg)

	if detail.DateValid {
		t.Error("DateValid should be false for an unparsable date")
	}
	if detail.DisplayDate != "sometime last week" {
		t.Errorf("DisplayDate = %q, want raw header value", detail.DisplayDate)
	}
	if detail.SortKey != 0 {
		t.Errorf("SortKey = %d, want 0 for unparsable date", detail.SortKey)
	}
}

func TestParseEmailDetailNilPayload(t *testing.T) {
	detail := ParseEmailDetail(&gmail.Message{Id: "m4"})
	if detail.Subject != "No Subject" {
		t.Errorf("Subject = %q, want %q", detail.Subject, "No Subject")
	}
	if len(detail.Attachments) != 0 {
		t.Errorf("Attachments = %d, want 0", len(detail.Attachments))
	}
}

func TestParseEmailDetailNestedAttachments(t *testing.T) {
	// multipart/mixed containing an inline part, a top-level attachment and
	// a nested multipart carrying two more attachments. One container part
	// carries a filename itself and must still be recursed.
	msg := &gmail.Message{
		Id: "m5",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: "aGk="}},
				{
					Filename: "top.pdf",
					MimeType: "application/pdf",
					Body:     &gmail.MessagePartBody{AttachmentId: "att-1", Size: 100},
				},
				{
					Filename: "bundle.eml",
					MimeType: "message/rfc822",
					Body:     &gmail.MessagePartBody{AttachmentId: "att-2", Size: 200},
					Parts: []*gmail.MessagePart{
						{
							Filename: "inner.xlsx",
							MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
							Body:     &gmail.MessagePartBody{AttachmentId: "att-3", Size: 300},
						},
						{
							Filename: "deep.csv",
							MimeType: "text/csv",
							Body:     &gmail.MessagePartBody{AttachmentId: "att-4", Size: 400},
						},
					},
				},
			},
		},
	}

	detail := ParseEmailDetail(msg)

	want := []string{"top.pdf", "bundle.eml", "inner.xlsx", "deep.csv"}
	if len(detail.Attachments) != len(want) {
		t.Fatalf("got %d attachments, want %d", len(detail.Attachments), len(want))
	}
	for i, a := range detail.Attachments {
		if a.Filename != want[i] {
			t.Errorf("attachment[%d] = %q, want %q (order must be preserved)", i, a.Filename, want[i])
		}
		if a.MessageID != "m5" {
			t.Errorf("attachment[%d] MessageID = %q, want m5", i, a.MessageID)
		}
	}
}

func TestParseEmailDetailInlineAttachments(t *testing.T) {
	// Small attachments arrive with their content in Body.Data instead of an
	// AttachmentId. They must be kept, decoded. A filename-bearing part with
	// neither is unusable and is dropped.
	msg := &gmail.Message{
		Id: "m6",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmail.MessagePart{
				{
					Filename: "notes.txt",
					MimeType: "text/plain",
					Body:     &gmail.MessagePartBody{Data: "aGVsbG8=", Size: 5},
				},
				{
					Filename: "big.pdf",
					MimeType: "application/pdf",
					Body:     &gmail.MessagePartBody{AttachmentId: "att-1", Size: 100},
				},
				{
					Filename: "empty.bin",
					MimeType: "application/octet-stream",
					Body:     &gmail.MessagePartBody{},
				},
			},
		},
	}

	detail := ParseEmailDetail(msg)

	if len(detail.Attachments) != 2 {
		t.Fatalf("got %d attachments, want 2", len(detail.Attachments))
	}

	inline := detail.Attachments[0]
	if inline.Filename != "notes.txt" {
		t.Errorf("attachment[0] = %q, want notes.txt", inline.Filename)
	}
	if inline.AttachmentID != "" {
		t.Errorf("inline attachment should have no AttachmentID, got %q", inline.AttachmentID)
	}
	if string(inline.Data) != "hello" {
		t.Errorf("inline Data = %q, want decoded %q", inline.Data, "hello")
	}

	fetched := detail.Attachments[1]
	if fetched.AttachmentID != "att-1" {
		t.Errorf("attachment[1] AttachmentID = %q, want att-1", fetched.AttachmentID)
	}
	if fetched.Data != nil {
		t.Errorf("referenced attachment should carry no inline Data, got %q", fetched.Data)
	}
}

func TestSplitFrom(t *testing.T) {
	tests := []struct {
		from      string
		wantName  string
		wantEmail string
	}{
		{"Jane Doe <jane@example.com>", "Jane Doe", "jane@example.com"},
		{"<jane@example.com>", "", "jane@example.com"},
		{"jane@example.com", "jane@example.com", ""},
		{"  Spaced Name   <x@y.com>", "Spaced Name", "x@y.com"},
		{"Broken <no-close", "Broken", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			name, email := splitFrom(tt.from)
			if name != tt.wantName || email != tt.wantEmail {
				t.Errorf("splitFrom(%q) = (%q, %q), want (%q, %q)",
					tt.from, name, email, tt.wantName, tt.wantEmail)
			}
		})
	}
}

func TestHeaderValueFirstWins(t *testing.T) {
	msg := &gmail.Message{
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "first"},
				{Name: "Subject", Value: "second"},
			},
		},
	}
	if got := HeaderValue(msg, "Subject"); got != "first" {
		t.Errorf("HeaderValue = %q, want %q", got, "first")
	}
	if got := HeaderValue(msg, "X-Missing"); got != "" {
		t.Errorf("HeaderValue for missing header = %q, want empty", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.xlsx", "report.xlsx"},
		{"../etc/passwd", "__etc_passwd"},
		{"dir\\file.txt", "dir_file.txt"},
		{"a/b/c", "a_b_c"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
