// Package auth implements the OAuth 2.0 Device Authorization Grant
// (RFC 8628) client flow for the authctl CLI: requesting a device code,
// polling the token endpoint until the user approves in a browser, and
// persisting the resulting credential via file or OS-keychain storage.
package auth
