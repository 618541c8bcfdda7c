package middleware

import (
	"context"
	"net/http"

	"github.com/anonto42/nano-midea/social/internal/models"
	"github.com/anonto42/nano-midea/social/pkg/firebase"
	"github.com/labstack/echo/v4"
)

// FirebaseUserResolver maps a Firebase UID to the linked local account
type FirebaseUserResolver interface {
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// verifyFirebaseToken accepts a Firebase ID token in place of a local JWT. The Firebase
// account must already be linked through /auth/firebase-login.
func verifyFirebaseToken(c echo.Context, verifier firebase.TokenVerifier, users FirebaseUserResolver, idToken string) (uint, error) {
	ctx := c.Request().Context()
	token, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	user, err := users.GetUserByFirebaseUID(ctx, token.UID)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Firebase account is not linked, sign in through /auth/firebase-login first")
	}
	if !user.IsActive() {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Account is not active")
	}

	// Store the Firebase UID in the context for later use
	c.Set("firebaseUID", token.UID)
	return user.ID, nil
}
