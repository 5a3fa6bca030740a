// Copyright (c) Attesta
// SPDX-License-Identifier: Apache-2.0

package auth

// Tokenizer specifies the API for minting and validating the two token
// kinds. Access and refresh tokens are signed with distinct secrets, so a
// refresh token can never pass access validation or vice versa.
type Tokenizer interface {
	// IssueAccess mints a short-lived access token carrying the account id
	// and role.
	IssueAccess(userID string, role Role) (string, error)

	// IssueRefresh mints a long-lived refresh token carrying only the
	// account id. The role is re-derived from the store at refresh time so
	// it can never go stale inside a token.
	IssueRefresh(userID string) (string, error)

	// ParseAccess validates an access token and returns the session it
	// encodes.
	ParseAccess(token string) (Session, error)

	// ParseRefresh validates a refresh token and returns the account id it
	// encodes.
	ParseRefresh(token string) (string, error)
}
