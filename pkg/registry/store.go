package registry

import (
	"github.com/ethereum/go-ethereum/common"
)

// Store holds the entire registry state: library records, version records,
// the enumerable name index, per-library authorization sets, and the
// license ledger. It performs no validation and no locking; the Service
// owns both.
type Store struct {
	libs     map[string]*Library
	versions map[string]map[string]*Version

	// names lists every registered name; nameIndex maps a name to its slot
	// so removal can swap-with-last without a scan. Order is not part of
	// the contract.
	names     []string
	nameIndex map[string]int

	authorized map[string]map[common.Address]bool
	licenses   map[string]map[common.Address]bool
}

// NewStore creates an empty registry store.
func NewStore() *Store {
	return &Store{
		libs:       make(map[string]*Library),
		versions:   make(map[string]map[string]*Version),
		nameIndex:  make(map[string]int),
		authorized: make(map[string]map[common.Address]bool),
		licenses:   make(map[string]map[common.Address]bool),
	}
}

func (s *Store) library(name string) (*Library, bool) {
	lib, ok := s.libs[name]
	return lib, ok
}

func (s *Store) putLibrary(name string, lib *Library) {
	s.libs[name] = lib
	s.nameIndex[name] = len(s.names)
	s.names = append(s.names, name)
}

// removeLibrary deletes the record and every associated set, freeing the
// name for future registration.
func (s *Store) removeLibrary(name string) {
	delete(s.libs, name)
	delete(s.versions, name)
	delete(s.authorized, name)
	delete(s.licenses, name)

	idx, ok := s.nameIndex[name]
	if !ok {
		return
	}
	last := len(s.names) - 1
	if idx != last {
		moved := s.names[last]
		s.names[idx] = moved
		s.nameIndex[moved] = idx
	}
	s.names = s.names[:last]
	delete(s.nameIndex, name)
}

func (s *Store) version(name, version string) (*Version, bool) {
	v, ok := s.versions[name][version]
	return v, ok
}

func (s *Store) putVersion(name, version string, v *Version) {
	if s.versions[name] == nil {
		s.versions[name] = make(map[string]*Version)
	}
	s.versions[name][version] = v
	s.libs[name].Versions = append(s.libs[name].Versions, version)
}

func (s *Store) isAuthorized(name string, addr common.Address) bool {
	return s.authorized[name][addr]
}

func (s *Store) setAuthorized(name string, addr common.Address, granted bool) {
	if granted {
		if s.authorized[name] == nil {
			s.authorized[name] = make(map[common.Address]bool)
		}
		s.authorized[name][addr] = true
		return
	}
	delete(s.authorized[name], addr)
}

func (s *Store) hasLicense(name string, addr common.Address) bool {
	return s.licenses[name][addr]
}

func (s *Store) setLicense(name string, addr common.Address, owned bool) {
	if owned {
		if s.licenses[name] == nil {
			s.licenses[name] = make(map[common.Address]bool)
		}
		s.licenses[name][addr] = true
		return
	}
	delete(s.licenses[name], addr)
}

func (s *Store) allNames() []string {
	return append([]string(nil), s.names...)
}
