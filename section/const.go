package section

// Fixed sizes of the on-disk records. All fields are little-endian with no
// padding between them, so these are exact wire sizes, not Go struct sizes.
const (
	// LumpCount is the number of descriptor slots in every header.
	LumpCount = 64

	// MetadataSize is the wire size of LumpMetadata: version(4) + identifier(4).
	MetadataSize = 8

	// DescriptorSize is the wire size of LumpDescriptor:
	// offset(4) + length(4) + metadata(8).
	DescriptorSize = 16

	// HeaderSize is the wire size of the full header:
	// identifier(4) + version(4) + 64 descriptors + revision(4).
	// Lump data begins at this offset in a canonically written file, and
	// descriptor offsets are absolute in the file, so parsing subtracts
	// HeaderSize before indexing the post-header region.
	HeaderSize = 4 + 4 + LumpCount*DescriptorSize + 4
)
