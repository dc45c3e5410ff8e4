package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

const (
	uploadTooLargeMessage = "File size exceeds the maximum allowed limit"
	internalErrorDetail   = "unexpected server error"
)

type Response struct {
	Status int
	Body   string
}

type rule struct {
	status int
	prefix string
}

var rules = map[Kind]rule{
	KindUserNotFound:             {http.StatusNotFound, "User not found: "},
	KindSenderNotFound:           {http.StatusNotFound, "User not found: "},
	KindGroupNotFound:            {http.StatusNotFound, "Group not found: "},
	KindImageNotFound:            {http.StatusNotFound, "Image not found: "},
	KindUnauthorized:             {http.StatusUnauthorized, "Unauthorized: "},
	KindAccessDenied:             {http.StatusForbidden, "Access denied: "},
	KindAdminAccessDenied:        {http.StatusForbidden, "Admin access denied: "},
	KindAlreadyMember:            {http.StatusConflict, "Membership error: "},
	KindNotMember:                {http.StatusForbidden, "Membership error: "},
	KindDuplicateUsername:        {http.StatusConflict, "Registration error: "},
	KindAlreadyVoted:             {http.StatusBadRequest, "Poll error: "},
	KindDecryptionFailed:         {http.StatusInternalServerError, "Chat error: "},
	KindEncryptionFailed:         {http.StatusInternalServerError, "Chat error: "},
	KindPollDoesNotBelongToGroup: {http.StatusNotFound, "Poll error: "},
	KindPollOptionNotFound:       {http.StatusNotFound, "Poll error: "},
	KindInvalidInput:             {http.StatusBadRequest, "Bad request: "},
}

// Mapper turns errors into HTTP responses. MaxUploadSize is the multipart
// limit enforced by the transport; zero or less means unknown.
type Mapper struct {
	MaxUploadSize  int64
	ExposeInternal bool
}

func NewMapper(maxUploadSize int64, exposeInternal bool) *Mapper {
	return &Mapper{MaxUploadSize: maxUploadSize, ExposeInternal: exposeInternal}
}

func (m *Mapper) Map(err error) Response {
	kind := KindOf(err)

	switch kind {
	case KindBadCredentials:
		return Response{Status: http.StatusUnauthorized, Body: "Authentication failed"}
	case KindUploadTooLarge:
		body := uploadTooLargeMessage
		if label := SizeLabel(m.MaxUploadSize); label != "" {
			body += " of " + label
		}
		return Response{Status: http.StatusBadRequest, Body: body}
	}

	if r, ok := rules[kind]; ok {
		return Response{Status: r.status, Body: r.prefix + detailOf(err)}
	}

	detail := internalErrorDetail
	if m.ExposeInternal {
		detail = detailOf(err)
	}
	return Response{Status: http.StatusInternalServerError, Body: "Internal error: " + detail}
}

// detailOf returns the message of the first *Error in err's chain.
func detailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// SizeLabel renders a byte count as whole MB, else whole KB, else bytes.
func SizeLabel(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	const kb = 1024
	const mb = 1024 * kb
	if bytes%mb == 0 {
		return fmt.Sprintf("%dMB", bytes/mb)
	}
	if bytes%kb == 0 {
		return fmt.Sprintf("%dKB", bytes/kb)
	}
	return fmt.Sprintf("%dB", bytes)
}

func GRPCCode(err error) codes.Code {
	switch KindOf(err) {
	case KindUserNotFound, KindSenderNotFound, KindGroupNotFound, KindImageNotFound,
		KindPollDoesNotBelongToGroup, KindPollOptionNotFound:
		return codes.NotFound
	case KindInvalidInput, KindAlreadyVoted, KindUploadTooLarge:
		return codes.InvalidArgument
	case KindUnauthorized, KindBadCredentials:
		return codes.Unauthenticated
	case KindAccessDenied, KindAdminAccessDenied, KindNotMember:
		return codes.PermissionDenied
	case KindAlreadyMember, KindDuplicateUsername:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}
