package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob:
//
//	filename F
//
//	<content bytes>
func MarshalBlob(b *Blob) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "filename %s\n", b.Filename)
	buf.WriteByte('\n')
	buf.Write(b.Data)
	return buf.Bytes()
}

// UnmarshalBlob parses a Blob from its serialized form. The ID is not part
// of the payload; callers set it from the store key.
func UnmarshalBlob(data []byte) (*Blob, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal blob: missing header/body separator")
	}
	header := string(data[:idx])
	body := data[idx+2:]

	key, val, ok := strings.Cut(header, " ")
	if !ok || key != "filename" || strings.Contains(val, "\n") {
		return nil, fmt.Errorf("unmarshal blob: malformed header %q", header)
	}
	out := make([]byte, len(body))
	copy(out, body)
	return &Blob{Filename: val, Data: out}, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a Commit:
//
//	parent H        (absent for the initial commit)
//	mergeparent H   (merge commits only)
//	branch B
//	timestamp T
//	file H name     (zero or more, sorted by name)
//
//	message
func MarshalCommit(c *Commit) []byte {
	return commitPayload(c, true)
}

// commitPayload renders the commit header and message. The identity payload
// used for hashing omits the branch line; nothing ever includes the ID.
func commitPayload(c *Commit, withBranch bool) []byte {
	var buf bytes.Buffer
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", string(c.Parent))
	}
	if c.MergeParent != "" {
		fmt.Fprintf(&buf, "mergeparent %s\n", string(c.MergeParent))
	}
	if withBranch {
		fmt.Fprintf(&buf, "branch %s\n", c.Branch)
	}
	fmt.Fprintf(&buf, "timestamp %d\n", c.Timestamp)
	for _, name := range c.Tree.Names() {
		fmt.Fprintf(&buf, "file %s %s\n", string(c.Tree[name]), name)
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form. The ID is
// re-derived from the parsed fields.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator")
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &Commit{Message: message, Tree: Tree{}}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "parent":
			c.Parent = Hash(val)
		case "mergeparent":
			c.MergeParent = Hash(val)
		case "branch":
			c.Branch = val
		case "timestamp":
			ts, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: bad timestamp %q: %w", val, err)
			}
			c.Timestamp = ts
		case "file":
			h, name, ok := strings.Cut(val, " ")
			if !ok || name == "" {
				return nil, fmt.Errorf("unmarshal commit: malformed file entry %q", val)
			}
			c.Tree[name] = Hash(h)
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	c.ID = HashCommit(c)
	return c, nil
}

// ---------------------------------------------------------------------------
// Envelope
// ---------------------------------------------------------------------------

func encodeEnvelope(objType ObjectType, data []byte) []byte {
	envelope := fmt.Sprintf("%s %d\x00", objType, len(data))
	return append([]byte(envelope), data...)
}

// decodeEnvelope parses "type len\0content" and checks the declared length.
func decodeEnvelope(h Hash, raw []byte) (ObjectType, []byte, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: invalid format (no NUL)", h)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("object read %s: invalid header %q", h, header)
	}
	objType := ObjectType(parts[0])
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: invalid length %q: %w", h, parts[1], err)
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("object read %s: length mismatch (header=%d, actual=%d)", h, length, len(content))
	}
	return objType, content, nil
}
