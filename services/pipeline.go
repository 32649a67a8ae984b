package services

import (
	"fmt"

	"airbnb-etl/models"
	"airbnb-etl/utils"
)

// MeltIDColumns and MeltValueColumns shape the long-format view.
var (
	MeltIDColumns    = []string{models.ColNeighbourhoodGroup}
	MeltValueColumns = []string{models.ColPrice, models.ColMinimumNights}
)

// GroupMeanColumns are averaged per (group, price category).
var GroupMeanColumns = []string{
	models.ColPrice, models.ColMinimumNights, models.ColNumberOfReviews, models.ColAvailability365,
}

// AggregateResult holds the derived views of the aggregation stage.
type AggregateResult struct {
	Prepared        models.Table
	ByGroup         models.Table
	PriceAndReviews models.Table
	Projection      *models.Frame
	GroupMeans      []models.GroupMean
	Sorted          models.Table
	Ranks           []models.GroupRank
}

// AnalysisResult holds the derived views of the analysis stage.
type AnalysisResult struct {
	Enriched    models.Table
	Pivot       *models.PivotTable
	Melted      *models.Frame
	Correlation *models.CorrelationMatrix
	Statistics  []models.ColumnStats
	Trends      []models.MonthlyTrend
	Averages    []models.MonthlyAverage
}

// Pipeline runs the three batch stages over in-memory tables. Every stage
// returns new values and leaves its input untouched.
type Pipeline struct {
	logger    *utils.Logger
	cleaner   *Cleaner
	enricher  *Enricher
	ranker    *Ranker
	resampler *Resampler
}

// NewPipeline wires the stage services around one logger.
func NewPipeline(logger *utils.Logger) *Pipeline {
	return &Pipeline{
		logger:    logger,
		cleaner:   NewCleaner(logger),
		enricher:  NewEnricher(logger),
		ranker:    NewRanker(logger),
		resampler: NewResampler(logger),
	}
}

// Prepare cleans the raw table and adds the price and stay categories.
func (p *Pipeline) Prepare(raw models.Table) (models.Table, error) {
	cleaned, err := p.cleaner.Clean(raw)
	if err != nil {
		return models.Table{}, fmt.Errorf("prepare: %w", err)
	}
	enriched, err := p.enricher.Enrich(cleaned)
	if err != nil {
		return models.Table{}, fmt.Errorf("prepare: %w", err)
	}
	return enriched, nil
}

// Aggregate filters, projects, sorts and ranks a prepared table. Groups
// are ranked over the listings that pass the price and reviews filter.
func (p *Pipeline) Aggregate(prepared models.Table, group string) (*AggregateResult, error) {
	if prepared.Len() == 0 {
		return nil, fmt.Errorf("aggregate: %w", models.ErrEmptyTable)
	}
	res := &AggregateResult{
		Prepared:        prepared,
		ByGroup:         FilterByGroup(prepared, group),
		PriceAndReviews: FilterByPriceAndReviews(prepared),
	}
	p.logger.Info("[selector] %s: %d listings; price>100 and reviews>10: %d listings",
		group, res.ByGroup.Len(), res.PriceAndReviews.Len())

	var err error
	if res.Projection, err = Select(res.PriceAndReviews, AnalysisColumns...); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	if res.GroupMeans, err = GroupMeans(res.PriceAndReviews, GroupMeanColumns...); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	res.Sorted = SortByPriceAndReviews(res.PriceAndReviews)
	if res.Ranks, err = p.ranker.RankGroups(res.PriceAndReviews); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	return res, nil
}

// Analyze reshapes, correlates, summarises and resamples a prepared table.
func (p *Pipeline) Analyze(prepared models.Table) (*AnalysisResult, error) {
	if prepared.Len() == 0 {
		return nil, fmt.Errorf("analyze: %w", models.ErrEmptyTable)
	}
	res := &AnalysisResult{}
	var err error
	if res.Pivot, err = Pivot(prepared); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if res.Melted, err = Melt(prepared, MeltIDColumns, MeltValueColumns); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if res.Enriched, err = p.enricher.AddAvailabilityStatus(prepared); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if res.Correlation, err = CorrelationMatrix(res.Enriched, CorrelationColumns...); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if res.Statistics, err = DescribeAll(res.Enriched, StatisticsColumns...); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if res.Trends, err = p.resampler.MonthlyTrends(res.Enriched); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if res.Averages, err = p.resampler.MonthlyAverages(res.Enriched); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	p.logger.Info("[pipeline] Analysis: pivot %dx%d, melted %d rows, %d months",
		len(res.Pivot.Groups), len(res.Pivot.RoomTypes), res.Melted.Len(), len(res.Averages))
	return res, nil
}
