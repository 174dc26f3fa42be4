package probe

import (
	"encoding/json"
	"net/http"
	"strings"
)

func body(s Submission) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// DefaultCases covers each client-visible rejection and one acceptance.
func DefaultCases() []Case {
	valid := Submission{Name: "Probe", Email: "probe@example.com", Message: "Hello, this is a delivery check."}

	missing := valid
	missing.Name = "   "
	badEmail := valid
	badEmail.Email = "not-an-email"
	longName := valid
	longName.Name = strings.Repeat("n", 101)
	short := valid
	short.Message = "hi"
	long := valid
	long.Message = strings.Repeat("m", 5001)
	spam := valid
	spam.Message = "Visit http://spam.com and http://malware.com and http://phishing.com for more!"

	return []Case{
		{Name: "valid", Body: body(valid), WantStatus: http.StatusOK},
		{Name: "missing fields", Body: body(missing), WantStatus: http.StatusBadRequest, WantCode: "missing_fields"},
		{Name: "invalid email", Body: body(badEmail), WantStatus: http.StatusBadRequest, WantCode: "invalid_email"},
		{Name: "name too long", Body: body(longName), WantStatus: http.StatusBadRequest, WantCode: "name_too_long"},
		{Name: "message too short", Body: body(short), WantStatus: http.StatusBadRequest, WantCode: "message_too_short"},
		{Name: "message too long", Body: body(long), WantStatus: http.StatusBadRequest, WantCode: "message_too_long"},
		{Name: "suspicious content", Body: body(spam), WantStatus: http.StatusBadRequest, WantCode: "suspicious_content"},
		{Name: "malformed json", Body: `{"name":`, WantStatus: http.StatusBadRequest},
	}
}
