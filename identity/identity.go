package identity

/* Identity is an opaque per-user key. It only namespaces locally
 * persisted history and schedule data; it is NOT a security boundary
 * and the credential check behind it is a mock.
 */
type Identity struct {
	ID       string
	Username string
	Email    string
}
