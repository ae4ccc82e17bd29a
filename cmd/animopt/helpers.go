package main

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"animopt/internal/archive"
	"animopt/internal/config"
	"animopt/internal/rawanim"
	"animopt/internal/skeleton"
)

var countPrinter = message.NewPrinter(language.English)

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// formatError renders a small positional error compactly.
func formatError(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// loadDocument reads a document from a user-supplied path.
func loadDocument(arg string) (*archive.Document, error) {
	path, err := config.ExpandPath(arg)
	if err != nil {
		return nil, err
	}
	return archive.Load(path)
}

// loadRigDocument is loadDocument plus decoding, for commands that need a
// skeleton alongside the animation.
func loadRigDocument(arg string) (*skeleton.Skeleton, *rawanim.Animation, error) {
	doc, err := loadDocument(arg)
	if err != nil {
		return nil, nil, err
	}
	skel, anim, err := doc.Decode()
	if err != nil {
		return nil, nil, err
	}
	if skel == nil {
		return nil, nil, fmt.Errorf("document %s carries no skeleton", arg)
	}
	return skel, anim, nil
}
