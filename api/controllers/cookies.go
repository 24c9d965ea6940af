package controllers

import (
	"net/http"
	"time"

	"github.com/officesnack/snackcycle/api/middleware"
	"github.com/officesnack/snackcycle/internal/votes"
)

const ballotMaxAge = 365 * 24 * time.Hour

// CookieOptions controls the attributes of cookies the API sets.
type CookieOptions struct {
	Secure bool
}

func readBallot(r *http.Request) *votes.Ballot {
	cookie, err := r.Cookie(votes.BallotCookieName)
	if err != nil {
		return votes.ParseBallot("")
	}
	return votes.ParseBallot(cookie.Value)
}

// writeBallot stores the ballot where browser scripts can read it to render
// vote buttons.
func writeBallot(w http.ResponseWriter, opts CookieOptions, ballot *votes.Ballot) {
	http.SetCookie(w, &http.Cookie{
		Name:     votes.BallotCookieName,
		Value:    ballot.Encode(),
		Path:     "/",
		MaxAge:   int(ballotMaxAge.Seconds()),
		HttpOnly: false,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeAdminCookie(w http.ResponseWriter, opts CookieOptions, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAdminCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
