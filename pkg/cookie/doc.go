// Package cookie reads and writes plain, signed and encrypted cookies with
// shared attributes.
//
//	m := cookie.New(cookie.WithSecret(secret), cookie.WithSecure(true))
//	_ = m.SetSigned(w, "session", userID, 86400)
//	userID, err := m.GetSigned(r, "session")
//
// Signed cookies use HMAC-SHA256 and stay readable by the client. Encrypted
// cookies use AES-256-GCM. Both bind the value to the cookie name.
package cookie
