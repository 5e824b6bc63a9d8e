package rimi

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const listingHTML = `
<!DOCTYPE html>
<html><body>
<div class="card">
	<a href="/epood/ee/tooted/p/123"></a>
	<img src="https://rimibaltic-web.imgix.net/123.png">
	<div class="card__name">Vana Tallinn 500ml</div>
	<div class="price-tag"><span>12,</span><sup>99 €</sup></div>
	<div class="card__price-per">25,98 €/l</div>
</div>
<div class="card">
	<a href="/epood/ee/tooted/p/456"></a>
	<div class="card__name">Saaremaa Vodka 500ml</div>
	<div class="price-label__price"><span class="major">7</span><span class="cents">49</span></div>
	<div class="price-per-unit">14,98   €/l</div>
</div>
<div class="card">
	<div class="card__name">Unknown</div>
	<div class="price-tag"><span>1,</span><sup>00</sup></div>
</div>
</body></html>`

func TestExtract(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingHTML))
	if err != nil {
		t.Fatal(err)
	}
	base, _ := url.Parse("https://www.rimi.ee/epood/ee/tooted/alkohol")

	products := New().Extract(base, doc)
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2 (placeholder name filtered)", len(products))
	}

	regular := products[0]
	if regular.Name != "Vana Tallinn 500ml" {
		t.Errorf("name = %q", regular.Name)
	}
	// Regular price tag splits euros and cents across span and sup.
	if regular.PriceText != "12.99" {
		t.Errorf("price text = %q, want 12.99", regular.PriceText)
	}
	if regular.IsSale {
		t.Error("price-tag price flagged as sale")
	}
	if regular.UnitText != "25,98 €/l" {
		t.Errorf("unit text = %q", regular.UnitText)
	}
	if regular.URL != "https://www.rimi.ee/epood/ee/tooted/p/123" {
		t.Errorf("url = %q", regular.URL)
	}

	sale := products[1]
	if sale.PriceText != "7.49" {
		t.Errorf("promo price = %q, want 7.49", sale.PriceText)
	}
	if !sale.IsSale {
		t.Error("price-label price should flag a sale")
	}
	// Whitespace runs in the unit price collapse to single spaces.
	if sale.UnitText != "14,98 €/l" {
		t.Errorf("unit text = %q", sale.UnitText)
	}
}

func TestExtractSelectorFallback(t *testing.T) {
	// Older markup used product-card instead of card.
	html := `
	<html><body>
	<div class="product-card">
		<a href="/p/789"></a>
		<h3>Gin Long Drink 330ml</h3>
		<div class="price-tag"><span>1,</span><sup>79</sup></div>
	</div>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	products := New().Extract(nil, doc)
	if len(products) != 1 {
		t.Fatalf("got %d products, want 1", len(products))
	}
	if products[0].Name != "Gin Long Drink 330ml" {
		t.Errorf("h3 name fallback: got %q", products[0].Name)
	}
	if products[0].PriceText != "1.79" {
		t.Errorf("price = %q, want 1.79", products[0].PriceText)
	}
}
