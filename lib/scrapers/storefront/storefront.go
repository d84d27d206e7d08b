package storefront

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"stockwatch/lib/htmlutil"
	"stockwatch/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
	// defaults to 15 seconds when unspecified
	Timeout time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 15
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "scrapers/storefront/http")

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// Observation is the result of probing a single sku.
type Observation struct {
	Sku        string
	OutOfStock bool
	// the page the stock indicator was read from, kept for logging
	ProductUrl string
}

func (c *Client) fetchDocument(ctx context.Context, sku, target string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		return nil, &FetchError{Sku: sku, Err: err}
	}
	if res.IsError() {
		return nil, &FetchError{Sku: sku, Err: fmt.Errorf("unexpected status: %s", res.Status())}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, &ParseError{Sku: sku, Reason: err.Error()}
	}
	return doc, nil
}

// CheckStock searches the storefront for a sku, follows the first
// product link when the search page carries one, and reads the
// quantity selector to decide whether the product can be purchased.
func (c *Client) CheckStock(ctx context.Context, sku string) (Observation, error) {
	ctx, span := tracer.Start(ctx, "client:CheckStock")
	defer span.End()
	span.SetAttributes(attribute.String("sku", sku))

	query := url.Values{}
	query.Add("search_query", sku)
	searchUrl := "/search.php?" + query.Encode()

	doc, err := c.fetchDocument(ctx, sku, searchUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to retrieve search page")
		return Observation{}, err
	}

	productUrl := c.BaseUrl.ResolveReference(&url.URL{Path: "/search.php", RawQuery: query.Encode()}).String()

	// search results usually link out to a dedicated product page,
	// the stock indicator lives there rather than on the results page
	anchors := htmlutil.GetAnchors(doc.Find("a.product-title"))
	if len(anchors) > 0 {
		href, err := url.Parse(anchors[0].Href)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "bad product link")
			return Observation{}, &ParseError{Sku: sku, Reason: "malformed product link"}
		}
		productUrl = c.BaseUrl.ResolveReference(href).String()

		slog.DebugContext(ctx, "following product link", "sku", sku, "url", productUrl)
		doc, err = c.fetchDocument(ctx, sku, productUrl)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to retrieve product page")
			return Observation{}, err
		}
	}

	qty := doc.Find(".ProductQty select")
	if len(qty.Nodes) == 0 {
		err := &ParseError{Sku: sku, Reason: "stock quantity selector not found"}
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing stock indicator")
		return Observation{}, err
	}

	inStock := false
	for _, value := range htmlutil.OptionValues(qty) {
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			inStock = true
			break
		}
	}

	span.SetAttributes(attribute.Bool("out_of_stock", !inStock))
	return Observation{
		Sku:        sku,
		OutOfStock: !inStock,
		ProductUrl: productUrl,
	}, nil
}
