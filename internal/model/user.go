package model

// User represents an entry in the user registry.  Registration happens
// elsewhere; this service only checks that a user key exists before
// creating threads on its behalf.
//
// Fields:
//  ID – unique user identifier (registry key).
type User struct {
    ID string // user:<id>
}

// AccessToken models a row in the relational access token table.  Tokens
// are opaque strings issued and revoked by an external auth service; each
// request resolves its token again and nothing is cached.
//
// Fields:
//  Token  – opaque bearer credential presented by the client.
//  UserID – owner of the token.
type AccessToken struct {
    Token  string // <token_table>.token
    UserID string // <token_table>.user_id
}
