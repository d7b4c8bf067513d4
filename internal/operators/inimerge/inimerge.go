// Package inimerge implements the `ini` structured-merge operator of
// spec §4.5, built on gopkg.in/ini.v1.
package inimerge

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/gizzahub/common-repo/internal/config"
	"github.com/gizzahub/common-repo/internal/memfs"
	"github.com/gizzahub/common-repo/internal/operators"
)

// Apply merges the named section of op.Source into the named section of
// op.Dest within ctx, per spec §4.5: "section-scoped; section names the
// target section (source section of same name by default); append: false
// replaces key values, true adds without replacing existing keys, with
// optional allow-duplicates controlling whether two identical keys can
// coexist."
func Apply(ctx operators.MergeContext, op *config.MergeOp) error {
	srcFile, ok := ctx.Source.Get(op.Source)
	if !ok {
		return fmt.Errorf("ini merge: source %q not found", op.Source)
	}

	srcCfg, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true}, srcFile.Content)
	if err != nil {
		return fmt.Errorf("ini merge: parse source %q: %w", op.Source, err)
	}

	var destContent []byte
	if f, ok := ctx.Dest.Get(op.Dest); ok {
		destContent = f.Content
	}

	destCfg, err := ini.LoadSources(ini.LoadOptions{AllowShadows: true, AllowNonUniqueSections: true}, destContent)
	if err != nil {
		return fmt.Errorf("ini merge: parse dest %q: %w", op.Dest, err)
	}

	section := op.Section
	if section == "" {
		section = ini.DefaultSection
	}

	srcSection, err := srcCfg.GetSection(section)
	if err != nil {
		return fmt.Errorf("ini merge: source has no section %q: %w", section, err)
	}

	destSection, err := destCfg.GetSection(section)
	if err != nil {
		destSection, err = destCfg.NewSection(section)
		if err != nil {
			return fmt.Errorf("ini merge: dest section %q: %w", section, err)
		}
	}

	for _, key := range srcSection.Keys() {
		if op.Append {
			if destSection.HasKey(key.Name()) && !op.AllowDuplicates {
				continue
			}
			destSection.NewKey(key.Name(), key.Value())
			continue
		}
		destSection.Key(key.Name()).SetValue(key.Value())
	}

	var buf bytes.Buffer
	if _, err := destCfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("ini merge: serialize %q: %w", op.Dest, err)
	}

	return ctx.Dest.Set(op.Dest, memfs.File{Content: buf.Bytes(), Origin: "ini-merge"})
}
