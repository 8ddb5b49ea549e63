package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_TargetAndPageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSessionService(setupDB(t))

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SessionState{}, st)

	require.NoError(t, s.SetTarget(ctx, "f1", "tok"))
	require.NoError(t, s.SetPage(ctx, "/folder/view/f1"))

	st, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SessionState{FolderID: "f1", Token: "tok", Page: "/folder/view/f1"}, st)

	require.NoError(t, s.SetTarget(ctx, "f2", ""))
	st, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "f2", st.FolderID)
	assert.Empty(t, st.Token, "empty token is dropped")

	require.NoError(t, s.Clear(ctx))
	st, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SessionState{}, st)
}

func TestParseScanLink(t *testing.T) {
	tests := []struct {
		in                  string
		folder, token, page string
		wantErr             bool
	}{
		{in: "https://booth.example.com/scan?token=abc&folder=f1", folder: "f1", token: "abc", page: "/scan?token=abc&folder=f1"},
		{in: "/scan?folder=f9&token=t", folder: "f9", token: "t", page: "/scan?folder=f9&token=t"},
		{in: "https://x/upload?token=a&folder=b", wantErr: true},
		{in: "https://x/scan?token=&folder=b", wantErr: true},
		{in: "https://x/scan?token=a", wantErr: true},
		{in: "::not a url", wantErr: true},
	}
	for _, tt := range tests {
		folder, token, page, err := ParseScanLink(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrNotScanLink, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.folder, folder)
		assert.Equal(t, tt.token, token)
		assert.Equal(t, tt.page, page)
	}
}
