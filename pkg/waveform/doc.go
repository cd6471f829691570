// Package waveform is a client SDK for writing content entities (tracks,
// playlists, albums) to a remote content network. It coordinates three
// concerns behind domain facades:
//
//   - uploading binary assets (audio, images) to a storage node, with a
//     bounded retry budget,
//   - deriving deterministic content identifiers for canonicalized
//     metadata (see the cidutil subpackage),
//   - building, signing, submitting and confirming entity writes against
//     an append-only ledger (see the entitymanager subpackage).
//
// External collaborators are modeled as capability interfaces
// (AuthService, StorageService, EntityManagerService, CatalogService,
// LedgerClient); HTTP implementations live in subpackages and tests swap
// in fakes. The SDK persists nothing locally: all durable state lives in
// the remote storage and ledger services, and every facade operation is
// self-contained, so a Client can be shared freely across goroutines.
package waveform
