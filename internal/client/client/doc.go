// Package client talks to the Photobooth web backend and bootstraps the
// client's local SQLite store.
//
// # Overview
//
//  1. Client is the transport-agnostic contract: Upload, DeletePhoto,
//     DeleteFolder, SharePhoto, DeactivateQR, DownloadPhoto, CheckAuth.
//  2. HTTPClient implements it over the backend's JSON routes. It sends
//     the login session as a cookie, asks for JSON on every request and
//     streams uploads as multipart bodies with progress callbacks.
//  3. InitDatabase and RunMigrations open SQLite and apply the embedded
//     goose migrations; NewRepositories wires the repositories on top.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Login redirects and bare 401/403
// responses become ErrUnauthorized. Other non-200 answers are *StatusError
// carrying the server's message, and unparseable bodies are *DecodeError.
package client
