// utils/respond.go
package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/gin-gonic/gin"
)

func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RespondWithAppError renders a discriminated error with its kind so the UI
// can show a specific message.
func RespondWithAppError(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		payload := gin.H{"error": appErr.Message, "kind": string(appErr.Kind)}
		if len(appErr.Fields) > 0 {
			payload["fields"] = appErr.Fields
		}
		c.AbortWithStatusJSON(HTTPStatus(err), payload)
		return
	}
	RespondWithError(c, HTTPStatus(err), err.Error())
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString returns a short random uppercase code, used for
// invoice numbers and portal registration codes.
func GenerateRandomString(n int) string {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			out[i] = codeAlphabet[0]
			continue
		}
		out[i] = codeAlphabet[idx.Int64()]
	}
	return string(out)
}
