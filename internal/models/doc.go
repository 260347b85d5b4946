// Package models defines domain entities and persistence interfaces for the DadRock Tabs catalog.
//
// [Video] is the only persistent entity: a song/artist pair pointing at a YouTube video, keyed by its canonical watch URL.
// Videos are created by the channel sync engine (see package tasks) and never mutated by it afterwards.
//
// [VideoStore] is the narrow store contract the sync engine depends on. The SQLite implementation lives in package repositories.
package models
