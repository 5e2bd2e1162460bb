package data

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Column names the workflow refers to directly.
const (
	SalePrice    = "Sale_Price"
	Neighborhood = "Neighborhood"
	GrLivArea    = "Gr_Liv_Area"
	YearBuilt    = "Year_Built"
	YearSold     = "Year_Sold"
	OverallQual  = "Overall_Qual"
	Latitude     = "Latitude"
	Longitude    = "Longitude"
)

// AmesRows is the number of sales in the Ames, Iowa assessor extract.
const AmesRows = 2930

var (
	quality    = []string{"Typical", "Good", "Excellent", "Fair", "Poor"}
	bsmtQual   = []string{"Typical", "Good", "Excellent", "Fair", "No_Basement", "Poor"}
	garageQual = []string{"Typical", "No_Garage", "Fair", "Good", "Poor", "Excellent"}
	overall    = []string{"Very_Poor", "Poor", "Fair", "Below_Average", "Average",
		"Above_Average", "Good", "Very_Good", "Excellent", "Very_Excellent"}
	exterior = []string{"VinylSd", "MetalSd", "HdBoard", "Wd Sdng", "Plywood", "CemntBd",
		"BrkFace", "WdShing", "AsbShng", "Stucco", "BrkComm", "Stone", "CBlock"}

	neighborhoods = []string{
		"North_Ames", "College_Creek", "Old_Town", "Edwards", "Somerset",
		"Northridge_Heights", "Gilbert", "Sawyer", "Northwest_Ames", "Sawyer_West",
		"Mitchell", "Brookside", "Crawford", "Iowa_DOT_and_Rail_Road", "Timberland",
		"Northridge", "Stone_Brook", "South_and_West_of_Iowa_State_University",
		"Clear_Creek", "Meadow_Village", "Briardale", "Bloomington_Heights",
		"Veenker", "Northpark_Villa", "Blueste", "Greens", "Green_Hills", "Landmark",
	}
)

// gen draws one value of a column. Derived columns (price, location) are
// filled in after the independent attributes.
type gen struct {
	col    Column
	levels []string // nominal levels, most frequent first
	decay  float64  // geometric decay of level weights
	lo, hi float64  // numeric range
	zero   float64  // probability of a structural zero
}

func nom(name string, decay float64, levels ...string) gen {
	return gen{col: Column{Name: name, Kind: Nominal}, levels: levels, decay: decay}
}

func num(name string, lo, hi, zero float64) gen {
	return gen{col: Column{Name: name, Kind: Numeric}, lo: lo, hi: hi, zero: zero}
}

var amesColumns = []gen{
	nom("MS_SubClass", 0.6, "One_Story_1946_and_Newer_All_Styles", "Two_Story_1946_and_Newer",
		"One_and_Half_Story_Finished_All_Ages", "One_Story_PUD_1946_and_Newer", "One_Story_1945_and_Older",
		"Two_Story_PUD_1946_and_Newer", "Two_Story_1945_and_Older", "Split_or_Multilevel", "Duplex_All_Styles_and_Ages"),
	nom("MS_Zoning", 0.25, "Residential_Low_Density", "Residential_Medium_Density", "Floating_Village_Residential",
		"Residential_High_Density", "C_all", "I_all", "A_agr"),
	num("Lot_Frontage", 21, 313, 0.17),
	num("Lot_Area", 1300, 215245, 0),
	nom("Street", 0.01, "Pave", "Grvl"),
	nom("Alley", 0.05, "No_Alley_Access", "Gravel", "Paved"),
	nom("Lot_Shape", 0.5, "Regular", "Slightly_Irregular", "Moderately_Irregular", "Irregular"),
	nom("Land_Contour", 0.06, "Lvl", "HLS", "Bnk", "Low"),
	nom("Utilities", 0.001, "AllPub", "NoSewr", "NoSeWa"),
	nom("Lot_Config", 0.3, "Inside", "Corner", "CulDSac", "FR2", "FR3"),
	nom("Land_Slope", 0.05, "Gtl", "Mod", "Sev"),
	{col: Column{Name: Neighborhood, Kind: Nominal}, levels: neighborhoods, decay: 0.86},
	nom("Condition_1", 0.08, "Norm", "Feedr", "Artery", "RRAn", "PosN", "RRAe", "PosA", "RRNn", "RRNe"),
	nom("Condition_2", 0.01, "Norm", "Feedr", "Artery", "PosA", "PosN", "RRNn", "RRAn", "RRAe"),
	nom("Bldg_Type", 0.1, "OneFam", "TwnhsE", "Duplex", "Twnhs", "TwoFmCon"),
	nom("House_Style", 0.55, "One_Story", "Two_Story", "One_and_Half_Fin", "SLvl", "SFoyer",
		"Two_and_Half_Unf", "One_and_Half_Unf", "Two_and_Half_Fin"),
	{col: Column{Name: OverallQual, Kind: Nominal}, levels: overall},
	nom("Overall_Cond", 0.45, "Average", "Above_Average", "Good", "Very_Good", "Below_Average",
		"Fair", "Excellent", "Poor", "Very_Poor"),
	{col: Column{Name: YearBuilt, Kind: Numeric}, lo: 1872, hi: 2010},
	num("Year_Remod_Add", 1950, 2010, 0),
	nom("Roof_Style", 0.25, "Gable", "Hip", "Gambrel", "Flat", "Mansard", "Shed"),
	nom("Roof_Matl", 0.01, "CompShg", "Tar&Grv", "WdShake", "WdShngl", "Membran", "Metal", "Roll", "ClyTile"),
	nom("Exterior_1st", 0.65, exterior...),
	nom("Exterior_2nd", 0.65, exterior...),
	nom("Mas_Vnr_Type", 0.5, "None", "BrkFace", "Stone", "BrkCmn", "CBlock"),
	num("Mas_Vnr_Area", 1, 1600, 0.6),
	nom("Exter_Qual", 0.55, quality...),
	nom("Exter_Cond", 0.12, quality...),
	nom("Foundation", 0.9, "PConc", "CBlock", "BrkTil", "Slab", "Stone", "Wood"),
	nom("Bsmt_Qual", 0.85, bsmtQual...),
	nom("Bsmt_Cond", 0.05, bsmtQual...),
	nom("Bsmt_Exposure", 0.35, "No", "Av", "Gd", "Mn", "No_Basement"),
	nom("BsmtFin_Type_1", 0.8, "GLQ", "Unf", "ALQ", "Rec", "BLQ", "LwQ", "No_Basement"),
	num("BsmtFin_SF_1", 1, 7, 0),
	nom("BsmtFin_Type_2", 0.05, "Unf", "Rec", "LwQ", "No_Basement", "BLQ", "ALQ", "GLQ"),
	num("BsmtFin_SF_2", 1, 1526, 0.88),
	num("Bsmt_Unf_SF", 0, 2336, 0.08),
	num("Total_Bsmt_SF", 100, 3200, 0.03),
	nom("Heating", 0.02, "GasA", "GasW", "Grav", "Wall", "OthW", "Floor"),
	nom("Heating_QC", 0.5, "Excellent", "Typical", "Good", "Fair", "Poor"),
	nom("Central_Air", 0.07, "Y", "N"),
	nom("Electrical", 0.08, "SBrkr", "FuseA", "FuseF", "FuseP", "Mix", "Unknown"),
	num("First_Flr_SF", 334, 3200, 0),
	num("Second_Flr_SF", 110, 1900, 0.57),
	num("Low_Qual_Fin_SF", 50, 1064, 0.98),
	{col: Column{Name: GrLivArea, Kind: Numeric}, lo: 334, hi: 5642},
	num("Bsmt_Full_Bath", 1, 3, 0.58),
	num("Bsmt_Half_Bath", 1, 2, 0.94),
	num("Full_Bath", 1, 4, 0),
	num("Half_Bath", 1, 2, 0.63),
	num("Bedroom_AbvGr", 1, 6, 0.01),
	num("Kitchen_AbvGr", 1, 3, 0),
	nom("Kitchen_Qual", 0.7, quality...),
	num("TotRms_AbvGrd", 2, 15, 0),
	nom("Functional", 0.03, "Typ", "Min2", "Min1", "Mod", "Maj1", "Maj2", "Sal", "Sev"),
	num("Fireplaces", 1, 4, 0.49),
	nom("Fireplace_Qu", 0.6, "No_Fireplace", "Good", "Typical", "Fair", "Poor", "Excellent"),
	nom("Garage_Type", 0.3, "Attchd", "Detchd", "BuiltIn", "No_Garage", "Basment", "CarPort", "More_Than_Two_Types"),
	nom("Garage_Finish", 0.75, "Unf", "RFn", "Fin", "No_Garage"),
	num("Garage_Cars", 1, 5, 0.05),
	num("Garage_Area", 160, 1488, 0.05),
	nom("Garage_Qual", 0.06, garageQual...),
	nom("Garage_Cond", 0.06, garageQual...),
	nom("Paved_Drive", 0.08, "Paved", "Dirt_Gravel", "Partial_Pavement"),
	num("Wood_Deck_SF", 12, 1424, 0.52),
	num("Open_Porch_SF", 4, 742, 0.44),
	num("Enclosed_Porch", 16, 1012, 0.84),
	num("Three_season_porch", 23, 508, 0.99),
	num("Screen_Porch", 40, 576, 0.91),
	num("Pool_Area", 144, 800, 0.996),
	nom("Pool_QC", 0.002, "No_Pool", "Excellent", "Good", "Typical", "Fair"),
	nom("Fence", 0.12, "No_Fence", "Minimum_Privacy", "Good_Privacy", "Good_Wood", "Minimum_Wood_Wire"),
	nom("Misc_Feature", 0.03, "None", "Shed", "Gar2", "Othr", "Elev", "TenC"),
	num("Misc_Val", 12, 17000, 0.96),
	num("Mo_Sold", 1, 12, 0),
	{col: Column{Name: YearSold, Kind: Numeric}, lo: 2006, hi: 2010},
	nom("Sale_Type", 0.1, "WD", "New", "COD", "ConLD", "CWD", "ConLI", "ConLw", "Oth", "Con", "VWD"),
	nom("Sale_Condition", 0.1, "Normal", "Partial", "Abnorml", "Family", "Alloca", "AdjLand"),
	{col: Column{Name: SalePrice, Kind: Numeric}},
	{col: Column{Name: Longitude, Kind: Numeric}},
	{col: Column{Name: Latitude, Kind: Numeric}},
}

// AmesSchema returns the 81-column schema of the housing dataset.
func AmesSchema() *Schema {
	cols := make([]Column, len(amesColumns))
	for i, g := range amesColumns {
		cols[i] = g.col
	}
	s, err := NewSchema(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

// Materialize produces the fixed sales dataset: rows records drawn from a
// source seeded with seed. The same (rows, seed) pair always yields the same
// dataset. Sale prices follow a log-linear relationship with living area,
// overall quality, construction year and neighborhood, and are right-skewed.
func Materialize(rows int, seed int64) (*Dataset, error) {
	if rows <= 0 {
		return nil, errors.Errorf("rows must be positive, got %d", rows)
	}
	r := rand.New(rand.NewSource(seed))
	numeric := make(map[string][]float64)
	nominal := make(map[string][]string)
	for _, g := range amesColumns {
		if g.col.Kind == Numeric {
			numeric[g.col.Name] = make([]float64, rows)
		} else {
			nominal[g.col.Name] = make([]string, rows)
		}
	}

	for i := 0; i < rows; i++ {
		for _, g := range amesColumns {
			switch g.col.Name {
			case SalePrice, Latitude, Longitude:
				continue
			case OverallQual:
				q := int(math.Round(5.1 + 1.4*r.NormFloat64()))
				q = min(max(q, 1), len(overall))
				nominal[OverallQual][i] = overall[q-1]
			case GrLivArea:
				numeric[GrLivArea][i] = math.Round(clamp(1500*math.Exp(0.32*r.NormFloat64()), g.lo, g.hi))
			case YearBuilt:
				numeric[YearBuilt][i] = math.Round(clamp(2010-math.Abs(r.NormFloat64())*38, g.lo, g.hi))
			default:
				if g.col.Kind == Nominal {
					nominal[g.col.Name][i] = g.level(r)
				} else {
					numeric[g.col.Name][i] = g.value(r)
				}
			}
		}

		hood := indexOf(neighborhoods, nominal[Neighborhood][i])
		lat, lon := neighborhoodCenter(hood)
		numeric[Latitude][i] = lat + 0.004*r.NormFloat64()
		numeric[Longitude][i] = lon + 0.004*r.NormFloat64()

		qual := float64(indexOf(overall, nominal[OverallQual][i]) + 1)
		logPrice := 11.95 +
			0.55*math.Log(numeric[GrLivArea][i]/1500) +
			0.09*(qual-5) +
			0.003*(numeric[YearBuilt][i]-1975) +
			neighborhoodEffect(hood) +
			0.11*r.NormFloat64()
		numeric[SalePrice][i] = math.Round(math.Exp(logPrice))
	}
	return FromColumns(AmesSchema(), numeric, nominal)
}

func (g gen) level(r *rand.Rand) string {
	decay := g.decay
	if decay <= 0 {
		decay = 0.5
	}
	total, w := 0.0, 1.0
	for range g.levels {
		total += w
		w *= decay
	}
	u := r.Float64() * total
	w = 1.0
	for _, l := range g.levels {
		if u < w {
			return l
		}
		u -= w
		w *= decay
	}
	return g.levels[len(g.levels)-1]
}

func (g gen) value(r *rand.Rand) float64 {
	if g.zero > 0 && r.Float64() < g.zero {
		return 0
	}
	// skew towards the low end of the range
	u := r.Float64()
	return math.Round(g.lo + (g.hi-g.lo)*u*u)
}

// neighborhoodCenter spreads neighborhood centres over the city with a
// low-discrepancy sequence so they do not pile on top of each other.
func neighborhoodCenter(i int) (lat, lon float64) {
	const phi = 0.6180339887498949
	fx := math.Mod(float64(i+1)*phi, 1)
	fy := math.Mod(float64(i+1)*phi*phi, 1)
	return 41.99 + 0.07*fy, -93.69 + 0.09*fx
}

func neighborhoodEffect(i int) float64 {
	return 0.25 * math.Sin(float64(i)*1.7)
}

func clamp(v, lo, hi float64) float64 { return math.Min(math.Max(v, lo), hi) }

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
