// Package feed construye el feed XML de productos (RSS 2.0 con el espacio de nombres g: de Google Merchant).
package feed

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/jhoicas/catalogo-calzado/internal/application/catalog"
	"github.com/jhoicas/catalogo-calzado/internal/application/dto"
)

const nsGoogle = "http://base.google.com/ns/1.0"

var _ catalog.FeedBuilder = (*XMLFeedBuilder)(nil)

// XMLFeedBuilder genera un ítem por variante (producto, talla) con stock disponible.
type XMLFeedBuilder struct {
	title    string
	baseURL  string
	currency string
}

// NewXMLFeedBuilder construye el generador. baseURL se antepone a las rutas relativas de imagen.
func NewXMLFeedBuilder(title, baseURL, currency string) *XMLFeedBuilder {
	if currency == "" {
		currency = "USD"
	}
	return &XMLFeedBuilder{title: title, baseURL: strings.TrimRight(baseURL, "/"), currency: currency}
}

// Build serializa la lista. Las tallas agotadas no se publican.
func (b *XMLFeedBuilder) Build(products []dto.ProductResponse) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	rss.CreateAttr("xmlns:g", nsGoogle)

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(b.title)
	channel.CreateElement("link").SetText(b.baseURL + "/")
	channel.CreateElement("description").SetText("Catálogo de calzado con stock por talla")

	for _, p := range products {
		for _, s := range p.Sizes {
			if s.Stock <= 0 {
				continue
			}
			item := channel.CreateElement("item")
			g := func(tag, value string) {
				item.CreateElement("g:" + tag).SetText(value)
			}
			g("id", p.ID+"-"+s.Size)
			g("item_group_id", p.ID)
			item.CreateElement("title").SetText(fmt.Sprintf("%s - Talla %s", p.Title, s.Size))
			item.CreateElement("link").SetText(b.baseURL + "/#producto-" + p.ID)
			g("brand", p.Brand)
			g("price", p.Price+" "+b.currency)
			g("size", s.Size)
			g("availability", "in stock")
			g("quantity", strconv.Itoa(s.Stock))
			g("condition", "new")
			if p.ImageURL != "" {
				g("image_link", b.absolute(p.ImageURL))
			}
		}
	}

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("feed: serializar XML: %w", err)
	}
	return out.Bytes(), nil
}

func (b *XMLFeedBuilder) absolute(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.baseURL + path
}
