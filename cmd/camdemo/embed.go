package main

import (
	"embed"
	"log"
)

//go:embed assets/*
var assetsFS embed.FS

func readAsset(path string) []byte {
	b, err := assetsFS.ReadFile(path)
	if err != nil {
		log.Fatalf("embed: read %s: %v", path, err)
	}
	return b
}
