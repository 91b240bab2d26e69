package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/catalog"
	"github.com/lemonexport/quote-engine/internal/model"
	"github.com/lemonexport/quote-engine/internal/ratecache"
	"github.com/lemonexport/quote-engine/internal/textparse"
	"github.com/lemonexport/quote-engine/internal/vision"
)

var (
	_ catalog.Provider   = (*Client)(nil)
	_ ratecache.Provider = (*Client)(nil)
	_ vision.Provider    = (*Client)(nil)
)

var zero = 0.0

func (c *Client) ListModels(ctx context.Context, brand string) ([]string, error) {
	prompt := fmt.Sprintf(`List all car series for brand "%s" currently on sale in China. Return as a plain JSON string array: ["Model1", "Model2"].`, brand)
	return c.askList(ctx, prompt)
}

func (c *Client) ListTrims(ctx context.Context, brand, modelName, year string) ([]string, error) {
	prompt := fmt.Sprintf("List all specific trims/configurations for %s %s %s. Return as a plain JSON string array.", year, brand, modelName)
	return c.askList(ctx, prompt)
}

func (c *Client) ListColors(ctx context.Context, brand, modelName, year, trim string) (model.ColorOptions, error) {
	prompt := fmt.Sprintf(`Official colors for %s %s %s %s. JSON: {"exterior":[], "interior":[]}`, year, brand, modelName, trim)
	resp, err := c.ask(ctx, prompt, nil)
	if err != nil {
		return model.ColorOptions{}, err
	}
	var opts model.ColorOptions
	if err := textparse.ParseObject(resp.Text, &opts); err != nil {
		return model.ColorOptions{}, fmt.Errorf("colors for %s %s: %w", brand, modelName, err)
	}
	if opts.Exterior == nil {
		opts.Exterior = []string{}
	}
	if opts.Interior == nil {
		opts.Interior = []string{}
	}
	return opts, nil
}

// EstimatePrice asks for the official guide price, or the retail market
// price for used vehicles. An answer with no plausible figure is a nil
// estimate, not an error.
func (c *Client) EstimatePrice(ctx context.Context, q catalog.PriceQuery) (*model.PriceEstimate, error) {
	subject := strings.Join(strings.Fields(fmt.Sprintf("%s款 %s %s %s", q.Year, q.Brand, q.Model, q.Trim)), " ")
	if q.Year == "" {
		subject = strings.Join(strings.Fields(fmt.Sprintf("%s %s %s", q.Brand, q.Model, q.Trim)), " ")
	}
	prompt := fmt.Sprintf("检索 %s 的官方指导价（MSRP，人民币元）。参考懂车帝。", subject)
	if q.Used {
		prompt = fmt.Sprintf("检索 %s 在中国的二手车零售行情价（人民币元）。", subject)
	}

	resp, err := c.ask(ctx, prompt, &zero)
	if err != nil {
		return nil, err
	}
	price, err := textparse.ParsePrice(resp.Text, c.priceBand)
	if errors.Is(err, textparse.ErrNoPrice) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.PriceEstimate{Price: price, SourceRef: firstSource(resp.Sources)}, nil
}

// SpotRate asks for today's rate of 1 source in target.
func (c *Client) SpotRate(ctx context.Context, source, target string) (decimal.Decimal, error) {
	prompt := fmt.Sprintf("Search today's exchange rate: 1 %s to %s. Return ONLY the numeric value (e.g. 0.1382).", source, target)
	resp, err := c.ask(ctx, prompt, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return textparse.ParseRate(resp.Text, c.rateBand)
}

// IdentifyVehicle returns nil when the answer carries no readable guess.
func (c *Client) IdentifyVehicle(ctx context.Context, images []vision.Image) (*vision.VehicleGuess, error) {
	req := Request{
		Prompt: "Identify car make, model, and year. JSON: {'brand':'','model':'','year':''}",
		Search: true,
	}
	for _, img := range images {
		req.Images = append(req.Images, encodeImage(img.MIMEType, img.Data))
	}
	resp, err := c.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	var g vision.VehicleGuess
	if err := textparse.ParseObject(resp.Text, &g); err != nil {
		c.logger.Debug("vehicle guess unreadable", "err", err)
		return nil, nil
	}
	return &g, nil
}

func (c *Client) IdentifyVIN(ctx context.Context, image vision.Image) (string, error) {
	resp, err := c.Generate(ctx, Request{
		Prompt: "Extract 17-digit VIN.",
		Images: []InlineImage{encodeImage(image.MIMEType, image.Data)},
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) askList(ctx context.Context, prompt string) ([]string, error) {
	resp, err := c.ask(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}
	return textparse.ParseStringList(resp.Text)
}

func firstSource(sources []string) string {
	for _, s := range sources {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return DefaultSourceRef
}
