package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryInterceptor authenticates every gRPC call with a bearer token from
// the "authorization" metadata and stores the caller's id in the context.
func (m *TokenManager) UnaryInterceptor(ctx context.Context, req any,
	info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is missing")
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "authorization token is missing")
	}

	token, ok := BearerToken(values[0])
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authorization token is malformed")
	}

	claims, err := m.Validate(token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return handler(WithUserID(ctx, claims.UserID), req)
}
