package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/directory"
	"github.com/trezcool/darasa/core/report"
)

// Token issuance lives in the identity service; this API only validates
// tokens and reads the acting teacher off the claims.

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "teacherToken",
		Claims:        new(Claims),
	}

	jwtIssuer          string
	jwtExpirationDelta time.Duration
)

func initAuth(conf *core.Config) {
	appJWTConfig.SigningKey = []byte(conf.SecretKey)
	jwtIssuer = conf.AppName
	jwtExpirationDelta = conf.Server.JWTExpirationDelta
}

// Claims represents the authorization claims transmitted via a JWT.
// Subject is the acting teacher's id.
type Claims struct {
	jwt.StandardClaims
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	IsTeacher bool   `json:"is_teacher,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

// GetTeacherClaims builds the claims the identity service issues for a
// teacher; also used to mint tokens in tests.
func GetTeacherClaims(tch directory.Teacher, isAdmin ...bool) *Claims {
	now := time.Now()
	var admin bool
	if len(isAdmin) > 0 {
		admin = isAdmin[0]
	}
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    jwtIssuer,
			Subject:   tch.ID,
			Audience:  "Darasa",
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:      tch.Name,
		Email:     tch.Email,
		IsTeacher: !admin,
		IsAdmin:   admin,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// actingTeacherID returns the authenticated teacher's id from the claims.
func actingTeacherID(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// actingActor builds the report.Actor for the authenticated teacher.
func actingActor(ctx echo.Context) (report.Actor, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return report.Actor{}, err
	}
	return report.Actor{TeacherID: claims.Subject, IsAdmin: claims.IsAdmin}, nil
}
