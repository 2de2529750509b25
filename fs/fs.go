// Package appfs embeds the files the binaries need at runtime: SQL migrations, email templates and assets.
package appfs

import "embed"

//go:embed assets/* migrations/*.sql templates/email/*
var FS embed.FS
