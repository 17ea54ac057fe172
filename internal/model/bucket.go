package model

// Bucket is a named deployment-environment partition and the set of
// domains whose records belong to it. The bucket name doubles as the
// target collection name in the document store.
type Bucket struct {
	Name    string
	Domains []string
}
