// Package sku encode la combinaison de VariantValues d'un SKU.
//
// La forme persistée dans product_variant_values.sku reste "id1-id2" ;
// chaque id est aussi écrit dans product_variant_value_options pour le
// comptage de références.
package sku

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimensions est le nombre de VariantValues qui composent un SKU.
const Dimensions = 2

const separator = "-"

// Options est la liste ordonnée des VariantValue ids d'un SKU.
type Options []int64

func (o Options) String() string {
	parts := make([]string, len(o))
	for i, id := range o {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, separator)
}

// Parse décode "7-12" en Options{7, 12}.
func Parse(s string) (Options, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("sku vide")
	}
	parts := strings.Split(s, separator)
	out := make(Options, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("sku %q invalide", s)
		}
		out = append(out, id)
	}
	return out, nil
}

// Tokens découpe un libellé d'affichage ("Red L") et exige exactement Dimensions morceaux.
func Tokens(displayName string) ([]string, error) {
	tokens := strings.Fields(displayName)
	if len(tokens) != Dimensions {
		return nil, fmt.Errorf("variant name %q must contain exactly %d values, got %d", displayName, Dimensions, len(tokens))
	}
	return tokens, nil
}

// Resolve transforme un libellé en Options à partir d'un index valeur → id.
func Resolve(displayName string, valueIDs map[string]int64) (Options, error) {
	tokens, err := Tokens(displayName)
	if err != nil {
		return nil, err
	}
	out := make(Options, 0, len(tokens))
	for _, token := range tokens {
		id, ok := valueIDs[token]
		if !ok {
			return nil, fmt.Errorf("variant value %q of %q is not defined in variant_values", token, displayName)
		}
		out = append(out, id)
	}
	return out, nil
}
