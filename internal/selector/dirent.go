package selector

import "unsafe"

// Linux dirent64 structure layout:
//
//	struct linux_dirent64 {
//	    ino64_t        d_ino;    /* 64-bit inode number */
//	    off64_t        d_off;    /* 64-bit offset to next structure */
//	    unsigned short d_reclen; /* Size of this dirent */
//	    unsigned char  d_type;   /* File type */
//	    char           d_name[]; /* Filename (null-terminated) */
//	};

// File type constants from dirent.h.
const (
	dtUnknown = 0
	dtDir     = 4
	dtReg     = 8
	dtLnk     = 10
)

// dirent is a parsed Linux directory entry.
type dirent struct {
	name  string
	dtype uint8
}

// parseDirents parses raw getdents64 output. dst is reused to avoid a
// per-call slice allocation; pass nil on first use.
func parseDirents(buf []byte, n int, dst []dirent) []dirent {
	entries := dst[:0]
	offset := 0

	for offset < n {
		// The fixed header is 19 bytes.
		if offset+19 > n {
			break
		}

		reclen := *(*uint16)(unsafe.Pointer(&buf[offset+16]))
		dtype := buf[offset+18]
		if reclen == 0 {
			break
		}

		nameStart := offset + 19
		nameEnd := offset + int(reclen)
		if nameEnd > n {
			nameEnd = n
		}

		nameBytes := buf[nameStart:nameEnd]
		nameLen := 0
		for nameLen < len(nameBytes) && nameBytes[nameLen] != 0 {
			nameLen++
		}
		name := string(nameBytes[:nameLen])

		if name != "." && name != ".." {
			entries = append(entries, dirent{name: name, dtype: dtype})
		}

		offset += int(reclen)
	}

	return entries
}

// joinPath concatenates a directory and entry name with a single
// separator, skipping the Clean and validation work of filepath.Join.
func joinPath(dirPath, name string) string {
	needsSep := len(dirPath) == 0 || dirPath[len(dirPath)-1] != '/'
	n := len(dirPath) + len(name)
	if needsSep {
		n++
	}
	buf := make([]byte, n)
	copy(buf, dirPath)
	i := len(dirPath)
	if needsSep {
		buf[i] = '/'
		i++
	}
	copy(buf[i:], name)
	return unsafe.String(&buf[0], len(buf))
}
