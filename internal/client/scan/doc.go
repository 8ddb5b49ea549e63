// Package scan runs a QR scan session: it opens a camera stream, samples
// frames on a schedule, decodes them and, once a code is found, releases
// the camera and either follows the decoded upload link or reports it as
// invalid.
//
// A Session is idle or scanning, nothing else. Starting while scanning and
// stopping while idle are no-ops. View callbacks run while the session
// holds its lock and must not call back into the Session.
package scan
