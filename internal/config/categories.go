package config

import (
	"fmt"
	"sort"
)

// jobCategories is the fixed set of occupation category codes the search
// form exposes. The codes follow the site's occupation classification;
// an unrecognized code is a configuration error, not a scrape failure.
var jobCategories = map[string]string{
	"01": "管理的職業",
	"02": "専門的・技術的職業",
	"03": "事務的職業",
	"04": "販売の職業",
	"05": "サービスの職業",
	"06": "保安の職業",
	"07": "農林漁業の職業",
	"08": "輸送・機械運転の職業",
	"09": "生産工程の職業",
	"10": "建設・採掘の職業",
	"11": "運搬・清掃・包装等の職業",
}

// ValidateCategory checks a category code against the enumerated set.
func ValidateCategory(code string) error {
	if _, ok := jobCategories[code]; !ok {
		return fmt.Errorf("unknown job category code %q (valid: %v)", code, CategoryCodes())
	}
	return nil
}

// CategoryLabel returns the human-readable label for a category code,
// or "" for an unknown code.
func CategoryLabel(code string) string {
	return jobCategories[code]
}

// CategoryCodes returns the valid category codes in sorted order.
func CategoryCodes() []string {
	codes := make([]string, 0, len(jobCategories))
	for code := range jobCategories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
