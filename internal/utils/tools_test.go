package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := EncryptPassword("secret-password")
	require.NoError(t, err)
	require.NotEqual(t, "secret-password", hash)

	ok, err := VerifyPassword(hash, "secret-password")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = VerifyPassword(hash, "wrong")
	assert.False(t, ok)
}

func TestHashContentStable(t *testing.T) {
	a := HashContent([]byte("pdf-bytes"))
	b := HashContent([]byte("pdf-bytes"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashContent([]byte("other")))
}

func TestDocumentContentType(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"brief.pdf", "application/pdf"},
		{"scan.PNG", "image/png"},
		{"photo.jpeg", "image/jpeg"},
		{"notes.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"malware.exe", ""},
		{"noextension", ""},
	}
	for _, tc := range cases {
		header := &multipart.FileHeader{Filename: tc.name}
		assert.Equal(t, tc.want, DocumentContentType(header), tc.name)
	}
}
