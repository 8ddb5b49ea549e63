// Package upload drives photo uploads: it filters the selected files to
// images, posts each one to the backend concurrently, reports progress
// and renders the outcome through small sink interfaces supplied by the
// caller (a terminal view in the CLI, recording fakes in tests).
//
// Successful uploads are optionally written to the local history and
// mirrored to object storage once the result is on screen.
package upload
