package sftpclient

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/Pythax76/sftpbridge/internal/logging"
)

// fakeFileInfo implements os.FileInfo for fake directory listings.
type fakeFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() os.FileMode  { return f.mode }
func (f fakeFileInfo) ModTime() time.Time { return f.modTime }
func (f fakeFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeFileInfo) Sys() interface{}   { return nil }

// fakeRemote implements remoteConn in memory and records which methods were
// invoked, so tests can assert an operation never touched the transport.
type fakeRemote struct {
	wd       string
	listings map[string][]os.FileInfo
	files    map[string][]byte // remote file contents for Open
	created  map[string]*bytes.Buffer

	readDirErr error
	statErr    error
	openErr    error
	createErr  error
	opErr      error // Mkdir/Remove/RemoveDirectory/Rename

	calls []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		wd:       "/home/demo",
		listings: make(map[string][]os.FileInfo),
		files:    make(map[string][]byte),
		created:  make(map[string]*bytes.Buffer),
	}
}

func (f *fakeRemote) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeRemote) Getwd() (string, error) {
	f.record("getwd")
	return f.wd, nil
}

func (f *fakeRemote) ReadDir(path string) ([]os.FileInfo, error) {
	f.record("readdir")
	if f.readDirErr != nil {
		return nil, f.readDirErr
	}
	infos, ok := f.listings[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return infos, nil
}

func (f *fakeRemote) Stat(path string) (os.FileInfo, error) {
	f.record("stat")
	if f.statErr != nil {
		return nil, f.statErr
	}
	if data, ok := f.files[path]; ok {
		return fakeFileInfo{name: path, size: int64(len(data)), mode: 0644}, nil
	}
	return nil, os.ErrNotExist
}

func (f *fakeRemote) Open(path string) (io.ReadCloser, error) {
	f.record("open")
	if f.openErr != nil {
		return nil, f.openErr
	}
	data, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeRemote) Create(path string) (io.WriteCloser, error) {
	f.record("create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	buf := &bytes.Buffer{}
	f.created[path] = buf
	return nopWriteCloser{buf}, nil
}

func (f *fakeRemote) Mkdir(path string) error {
	f.record("mkdir")
	return f.opErr
}

func (f *fakeRemote) Remove(path string) error {
	f.record("remove")
	return f.opErr
}

func (f *fakeRemote) RemoveDirectory(path string) error {
	f.record("rmdir")
	return f.opErr
}

func (f *fakeRemote) Rename(oldPath, newPath string) error {
	f.record("rename")
	return f.opErr
}

func (f *fakeRemote) Close() error {
	f.record("close")
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// newConnectedClient wires a client directly to a fake remote, bypassing the
// network for operation-level tests.
func newConnectedClient(fake *fakeRemote) *Client {
	c := New(logging.Nop())
	c.state = Connected
	c.conn = fake
	c.cursor = fake.wd
	return c
}
