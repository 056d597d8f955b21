package common

// MaxFilenameLength bounds the filename carried by the first upload chunk.
// It matches typical filesystem limits.
const MaxFilenameLength = 255

// DefaultEndpointAddr is the port both binaries agree on when nothing is
// configured.
const DefaultEndpointAddr = ":50051"
