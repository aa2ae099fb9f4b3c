package entity

import (
	"fmt"
	"strings"
)

// Platform identifica un origen de datos (marketplace) o la vista combinada.
type Platform string

const (
	PlatformShopify  Platform = "shopify"
	PlatformAmazon   Platform = "amazon"
	PlatformCombined Platform = "combined" // solo como vista, nunca como consulta
	PlatformAll      Platform = "all"      // consulta multi-plataforma
)

// Marketplaces plataformas concretas conocidas, en orden de presentación.
var Marketplaces = []Platform{PlatformShopify, PlatformAmazon}

// ParsePlatform valida un nombre de plataforma para consultas al backend.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformShopify, PlatformAmazon, PlatformAll:
		return p, nil
	case "":
		return PlatformAll, nil
	default:
		return "", fmt.Errorf("plataforma desconocida: %q", s)
	}
}

// ParseView valida un nombre de vista (shopify, amazon o combined).
func ParseView(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformShopify, PlatformAmazon, PlatformCombined:
		return p, nil
	default:
		return "", fmt.Errorf("vista desconocida: %q", s)
	}
}

func (p Platform) String() string { return string(p) }
