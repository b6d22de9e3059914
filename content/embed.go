// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content embeds the bundled site content so "promsnab import"
// works without a checkout of the content directory.
package content

import "embed"

// FS holds site.yaml and the pages, posts and products directories.
//
//go:embed site.yaml pages posts products
var FS embed.FS
