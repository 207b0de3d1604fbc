package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"mime/multipart"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func EncryptPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func VerifyPassword(hashedPassword, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return false, err
	}
	return true, nil
}

// HashContent returns the hex SHA-256 of uploaded file content, stored
// alongside each document version for historical accuracy.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// allowedDocumentExtensions mirrors the upload form's accepted types.
var allowedDocumentExtensions = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DocumentContentType maps an uploaded file to its content type, or ""
// when the extension is not an accepted document type.
func DocumentContentType(header *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	return allowedDocumentExtensions[ext]
}
