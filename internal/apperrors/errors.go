package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. The transports translate kinds into
// HTTP and gRPC status codes; everything without a kind is unclassified.
type Kind int

const (
	KindUnclassified Kind = iota
	KindUserNotFound
	KindSenderNotFound
	KindGroupNotFound
	KindImageNotFound
	KindUnauthorized
	KindAccessDenied
	KindAdminAccessDenied
	KindAlreadyMember
	KindNotMember
	KindDuplicateUsername
	KindBadCredentials
	KindAlreadyVoted
	KindDecryptionFailed
	KindEncryptionFailed
	KindPollDoesNotBelongToGroup
	KindPollOptionNotFound
	KindInvalidInput
	KindUploadTooLarge
)

var kindNames = map[Kind]string{
	KindUnclassified:             "unclassified",
	KindUserNotFound:             "user not found",
	KindSenderNotFound:           "sender not found",
	KindGroupNotFound:            "group not found",
	KindImageNotFound:            "image not found",
	KindUnauthorized:             "unauthorized",
	KindAccessDenied:             "access denied",
	KindAdminAccessDenied:        "admin access denied",
	KindAlreadyMember:            "already member",
	KindNotMember:                "not member",
	KindDuplicateUsername:        "duplicate username",
	KindBadCredentials:           "bad credentials",
	KindAlreadyVoted:             "already voted",
	KindDecryptionFailed:         "decryption failed",
	KindEncryptionFailed:         "encryption failed",
	KindPollDoesNotBelongToGroup: "poll does not belong to group",
	KindPollOptionNotFound:       "poll option not found",
	KindInvalidInput:             "invalid input",
	KindUploadTooLarge:           "upload too large",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a domain failure carrying its kind and a human readable detail.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so callers can match against the Err* sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrUserNotFound             = &Error{Kind: KindUserNotFound}
	ErrSenderNotFound           = &Error{Kind: KindSenderNotFound}
	ErrGroupNotFound            = &Error{Kind: KindGroupNotFound}
	ErrImageNotFound            = &Error{Kind: KindImageNotFound}
	ErrUnauthorized             = &Error{Kind: KindUnauthorized}
	ErrAccessDenied             = &Error{Kind: KindAccessDenied}
	ErrAdminAccessDenied        = &Error{Kind: KindAdminAccessDenied}
	ErrAlreadyMember            = &Error{Kind: KindAlreadyMember}
	ErrNotMember                = &Error{Kind: KindNotMember}
	ErrDuplicateUsername        = &Error{Kind: KindDuplicateUsername}
	ErrBadCredentials           = &Error{Kind: KindBadCredentials}
	ErrAlreadyVoted             = &Error{Kind: KindAlreadyVoted}
	ErrDecryptionFailed         = &Error{Kind: KindDecryptionFailed}
	ErrEncryptionFailed         = &Error{Kind: KindEncryptionFailed}
	ErrPollDoesNotBelongToGroup = &Error{Kind: KindPollDoesNotBelongToGroup}
	ErrPollOptionNotFound       = &Error{Kind: KindPollOptionNotFound}
	ErrInvalidInput             = &Error{Kind: KindInvalidInput}
	ErrUploadTooLarge           = &Error{Kind: KindUploadTooLarge}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error, keeping it reachable via errors.Is/As.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func UserNotFound(format string, args ...any) *Error {
	return New(KindUserNotFound, format, args...)
}

func SenderNotFound(format string, args ...any) *Error {
	return New(KindSenderNotFound, format, args...)
}

func GroupNotFound(format string, args ...any) *Error {
	return New(KindGroupNotFound, format, args...)
}

func ImageNotFound(format string, args ...any) *Error {
	return New(KindImageNotFound, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

func AccessDenied(format string, args ...any) *Error {
	return New(KindAccessDenied, format, args...)
}

func NotMember(format string, args ...any) *Error {
	return New(KindNotMember, format, args...)
}

func DuplicateUsername(format string, args ...any) *Error {
	return New(KindDuplicateUsername, format, args...)
}

func BadCredentials() *Error {
	return &Error{Kind: KindBadCredentials, Message: "bad credentials"}
}

func InvalidInput(format string, args ...any) *Error {
	return New(KindInvalidInput, format, args...)
}

func UploadTooLarge(err error) *Error {
	return Wrap(KindUploadTooLarge, err, "upload exceeds the multipart size limit")
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnclassified
}
