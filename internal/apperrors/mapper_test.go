package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestMapper_Map(t *testing.T) {
	mapper := NewMapper(0, false)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"user not found", UserNotFound("id 7"), http.StatusNotFound, "User not found: id 7"},
		{"sender not found", SenderNotFound("Sender not found by ID"), http.StatusNotFound, "User not found: Sender not found by ID"},
		{"group not found", GroupNotFound("Group with id g1 not found"), http.StatusNotFound, "Group not found: Group with id g1 not found"},
		{"unauthorized", Unauthorized("user is not authenticated"), http.StatusUnauthorized, "Unauthorized: user is not authenticated"},
		{"access denied", AccessDenied("nope"), http.StatusForbidden, "Access denied: nope"},
		{"admin access denied", New(KindAdminAccessDenied, "admins only"), http.StatusForbidden, "Admin access denied: admins only"},
		{"already member", New(KindAlreadyMember, "already in group"), http.StatusConflict, "Membership error: already in group"},
		{"not member", NotMember("not in chat"), http.StatusForbidden, "Membership error: not in chat"},
		{"duplicate username", DuplicateUsername("Username 'bob' is already taken"), http.StatusConflict, "Registration error: Username 'bob' is already taken"},
		{"bad credentials hides detail", BadCredentials(), http.StatusUnauthorized, "Authentication failed"},
		{"already voted", New(KindAlreadyVoted, "twice"), http.StatusBadRequest, "Poll error: twice"},
		{"decryption failed", New(KindDecryptionFailed, "bad key"), http.StatusInternalServerError, "Chat error: bad key"},
		{"encryption failed", New(KindEncryptionFailed, "bad key"), http.StatusInternalServerError, "Chat error: bad key"},
		{"poll not in group", New(KindPollDoesNotBelongToGroup, "poll 3"), http.StatusNotFound, "Poll error: poll 3"},
		{"poll option not found", New(KindPollOptionNotFound, "option 4"), http.StatusNotFound, "Poll error: option 4"},
		{"invalid input", InvalidInput("Image file cannot be empty"), http.StatusBadRequest, "Bad request: Image file cannot be empty"},
		{"upload too large without limit", UploadTooLarge(errors.New("too big")), http.StatusBadRequest, "File size exceeds the maximum allowed limit"},
		{"unclassified hides detail", errors.New("boom"), http.StatusInternalServerError, "Internal error: unexpected server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			resp := mapper.Map(tt.err)
			req.Equal(tt.wantStatus, resp.Status)
			req.Equal(tt.wantBody, resp.Body)
		})
	}
}

func TestMapper_Map_ExposeInternal(t *testing.T) {
	req := require.New(t)
	resp := NewMapper(0, true).Map(errors.New("boom"))
	req.Equal(http.StatusInternalServerError, resp.Status)
	req.Equal("Internal error: boom", resp.Body)
}

func TestMapper_Map_WrappedKind(t *testing.T) {
	req := require.New(t)
	err := fmt.Errorf("handler: %w", UserNotFound("id 7"))
	resp := NewMapper(0, false).Map(err)
	req.Equal(http.StatusNotFound, resp.Status)
	req.Equal("User not found: id 7", resp.Body)
}

func TestMapper_Map_DeeplyWrappedKind(t *testing.T) {
	req := require.New(t)
	cause := errors.New("strconv.Atoi: parsing \"x\": invalid syntax")
	err := fmt.Errorf("upload: %w", fmt.Errorf("parse form: %w", Wrap(KindInvalidInput, cause, "image id must be numeric")))

	resp := NewMapper(0, false).Map(err)
	req.Equal(http.StatusBadRequest, resp.Status)
	req.Equal("Bad request: image id must be numeric", resp.Body)
}

func TestMapper_Map_UploadTooLargeLabel(t *testing.T) {
	tests := []struct {
		limit int64
		want  string
	}{
		{10 * 1024 * 1024, "File size exceeds the maximum allowed limit of 10MB"},
		{1536 * 1024, "File size exceeds the maximum allowed limit of 1536KB"},
		{1000, "File size exceeds the maximum allowed limit of 1000B"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			resp := NewMapper(tt.limit, false).Map(UploadTooLarge(nil))
			require.Equal(t, http.StatusBadRequest, resp.Status)
			require.Equal(t, tt.want, resp.Body)
		})
	}
}

func TestSizeLabel(t *testing.T) {
	req := require.New(t)
	req.Equal("", SizeLabel(0))
	req.Equal("", SizeLabel(-5))
	req.Equal("5MB", SizeLabel(5242880))
	req.Equal("1KB", SizeLabel(1024))
	req.Equal("1025B", SizeLabel(1025))
}

func TestErrorIs_MatchesKind(t *testing.T) {
	req := require.New(t)
	err := fmt.Errorf("wrapped: %w", GroupNotFound("Group with id x not found"))
	req.ErrorIs(err, ErrGroupNotFound)
	req.NotErrorIs(err, ErrUserNotFound)
	req.Equal(KindGroupNotFound, KindOf(err))
	req.Equal(KindUnclassified, KindOf(errors.New("plain")))
}

func TestGRPCCode(t *testing.T) {
	req := require.New(t)
	req.Equal(codes.NotFound, GRPCCode(UserNotFound("x")))
	req.Equal(codes.InvalidArgument, GRPCCode(InvalidInput("x")))
	req.Equal(codes.PermissionDenied, GRPCCode(NotMember("x")))
	req.Equal(codes.Unauthenticated, GRPCCode(BadCredentials()))
	req.Equal(codes.AlreadyExists, GRPCCode(DuplicateUsername("x")))
	req.Equal(codes.Internal, GRPCCode(errors.New("boom")))
}
