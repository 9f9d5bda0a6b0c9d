package csvimport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestRead_UTF8(t *testing.T) {
	in := "title,brand,price,image_url,sizes\n" +
		"Zapato negro,Boni,74.99,/imagenes/imagen1.jpeg,38:2|39:0|40\n" +
		",,,,\n" +
		"Bota,Boni,\"99,50\",/b.jpeg,41:1\n"
	out, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Zapato negro", out[0].Product.Title)
	assert.Equal(t, "74.99", out[0].Product.Price.StringFixed(2))
	require.Len(t, out[0].Sizes, 3)
	assert.Equal(t, 2, out[0].Sizes[0].Stock.OrZero())
	assert.False(t, out[0].Sizes[2].Stock.Set)
	assert.Equal(t, "99.50", out[1].Product.Price.StringFixed(2))
}

func TestRead_Latin1Semicolon(t *testing.T) {
	utf := "title;brand;price;image_url;sizes\nZapato café;Boni;74,99;/c.jpeg;36:3\n"
	enc, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	out, err := Read(bytes.NewReader([]byte(enc)), Options{Encoding: "windows-1252", Delimiter: ';'})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Zapato café", out[0].Product.Title)
}

// Las hojas de cálculo guardan UTF-8 con BOM al inicio del encabezado.
func TestRead_HeaderWithBOM(t *testing.T) {
	in := "\ufefftitle,brand,price,image_url,sizes\nZapato negro,Boni,74.99,/a.jpeg,38:2\n"
	out, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Zapato negro", out[0].Product.Title)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader("title,brand\nA,B\n"), Options{})
	assert.ErrorContains(t, err, "price")

	_, err = Read(strings.NewReader("title,brand,price,image_url,sizes\nA,B,x,/a,38:1\n"), Options{})
	assert.ErrorContains(t, err, "línea 2")

	_, err = Read(strings.NewReader("title,brand,price,image_url,sizes\nA,B,1,/a,38:x\n"), Options{})
	assert.Error(t, err)

	_, err = Read(strings.NewReader(""), Options{Encoding: "ebcdic"})
	assert.Error(t, err)
}
