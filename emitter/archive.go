package emitter

import "golang.org/x/tools/txtar"

// Archive bundles files into a single txtar archive. comment becomes the
// archive header.
func Archive(comment string, files []File) []byte {
	a := &txtar.Archive{Comment: []byte(comment)}
	for _, f := range files {
		a.Files = append(a.Files, txtar.File{Name: f.Name, Data: f.Content})
	}
	return txtar.Format(a)
}

// Unarchive splits a txtar archive back into files.
func Unarchive(data []byte) []File {
	a := txtar.Parse(data)
	files := make([]File, len(a.Files))
	for i, f := range a.Files {
		files[i] = File{Name: f.Name, Content: f.Data}
	}
	return files
}
