package config

import (
	"github.com/takumi/hellowork-collector/internal/extract"
)

// ListSelectors describes the search-results page markup: how a job
// record's sibling blocks are found and which fields each block carries.
type ListSelectors struct {
	// Search form
	RegionSelect   string
	CategorySelect string
	SubmitButton   string

	// Results
	ResultsContainer string

	// Record boundary blocks. One record spans a header row, a date row,
	// a body row, optional notes/positions rows, and a footer row, all
	// siblings inside the record table.
	RecordContainer string
	RecordHeader    string
	RecordDate      string
	RecordBody      string
	RecordNotes     string
	RecordPositions string
	RecordFooter    string

	HeaderTitle  extract.Locator
	DateReceipt  extract.Locator
	DateDeadline extract.Locator

	BodyFields extract.FieldMap

	NotesLabel string

	PositionsValue  extract.Locator
	PositionsPrefix string
	PositionsSuffix string

	FooterLink extract.Locator
}

// PaginationSelectors describes the next-page control and the markers
// used to confirm navigation or detect the site's transient error page.
type PaginationSelectors struct {
	NextButton string
	PageMarker string
	// ErrorMarkerText distinguishes the site-rendered transient error
	// page. Its appearance is fatal to the run.
	ErrorMarkerText string
}

// DetailSelectors describes the detail-page markup.
type DetailSelectors struct {
	// Anchor is the element whose presence confirms the detail page
	// rendered; waits time out against it.
	Anchor string
	Fields extract.FieldMap
}

// DefaultListSelectors returns the list-page contract for the current
// site release.
func DefaultListSelectors() ListSelectors {
	return ListSelectors{
		RegionSelect:     `select[name="tDFKCmbBox"]`,
		CategorySelect:   `select[name="skKishuCheckBox"]`,
		SubmitButton:     `#ID_searchBtn`,
		ResultsContainer: `#ID_result_area`,

		RecordContainer: `table.kyujin`,
		RecordHeader:    `tr.kyujin_head`,
		RecordDate:      `tr.kyujin_date`,
		RecordBody:      `tr.kyujin_body`,
		RecordNotes:     `tr.kyujin_notes`,
		RecordPositions: `tr.kyujin_positions`,
		RecordFooter:    `tr.kyujin_foot`,

		HeaderTitle:  extract.Text(`td.m13`),
		DateReceipt:  extract.Text(`td:nth-of-type(1)`),
		DateDeadline: extract.Text(`td:nth-of-type(2)`),

		// Each locator anchors on the label cell and takes its adjacent
		// value cell. Anchoring on the row would also match the record's
		// outer cell, whose text contains every label.
		BodyFields: extract.FieldMap{
			{Name: "job_number", Locator: extract.Text(`th:contains("求人番号") + td`)},
			{Name: "job_category", Locator: extract.Text(`th:contains("求人区分") + td`)},
			{Name: "office_name", Locator: extract.Text(`th:contains("事業所名") + td`)},
			{Name: "work_location", Locator: extract.Text(`th:contains("就業場所") + td`)},
			{Name: "job_description", Locator: extract.Text(`th:contains("仕事の内容") + td`)},
			{Name: "employment_type", Locator: extract.Text(`th:contains("雇用形態") + td`)},
			{Name: "wage", Locator: extract.Text(`th:contains("賃金") + td`)},
			{Name: "working_hours_1", Locator: extract.Text(`th:contains("就業時間") + td div:nth-of-type(1)`)},
			{Name: "working_hours_2", Locator: extract.Text(`th:contains("就業時間") + td div:nth-of-type(2)`)},
			{Name: "working_hours_3", Locator: extract.Text(`th:contains("就業時間") + td div:nth-of-type(3)`)},
			{Name: "holidays", Locator: extract.Text(`th:contains("休日") + td`)},
			{Name: "age_limit", Locator: extract.Text(`th:contains("年齢") + td`)},
			{Name: "publication_scope", Locator: extract.Text(`th:contains("公開範囲") + td`)},
		},

		NotesLabel: `span.nes_label`,

		PositionsValue:  extract.Text(`td`),
		PositionsPrefix: "求人数：",
		PositionsSuffix: "人",

		FooterLink: extract.Attribute(`a[href*="dispDetailBtn"]`, "href"),
	}
}

// DefaultPaginationSelectors returns the pagination contract.
func DefaultPaginationSelectors() PaginationSelectors {
	return PaginationSelectors{
		NextButton:      `input[name="fwListNaviBtnNext"]`,
		PageMarker:      `#ID_result_area`,
		ErrorMarkerText: "エラーが発生しました",
	}
}

// DefaultDetailSelectors returns the detail-page contract. Every field is
// independently optional; an absent element yields an empty string.
func DefaultDetailSelectors() DetailSelectors {
	return DetailSelectors{
		Anchor: `#ID_kjNo`,
		Fields: extract.FieldMap{
			// Posting
			{Name: "job_number", Locator: extract.Text(`#ID_kjNo`)},
			{Name: "reception_date", Locator: extract.Text(`#ID_uktkYmd`)},
			{Name: "deadline_date", Locator: extract.Text(`#ID_shkiKigenHi`)},
			{Name: "job_title", Locator: extract.Text(`#ID_sksu`)},
			{Name: "job_description", Locator: extract.Text(`#ID_shigotoNy`)},
			{Name: "employment_type", Locator: extract.Text(`#ID_koyoKeitai`)},
			{Name: "dispatch_contract_type", Locator: extract.Text(`#ID_hakenUkeoiShgKbn`)},
			{Name: "employment_period", Locator: extract.Text(`#ID_koyoKikan`)},
			{Name: "work_location", Locator: extract.Text(`#ID_shgBsJusho`)},
			{Name: "nearest_station", Locator: extract.Text(`#ID_shgBsMyorEki`)},
			{Name: "commute_by_car", Locator: extract.Text(`#ID_mycarTskn`)},
			{Name: "smoking_policy", Locator: extract.Text(`#ID_kitsuTsak`)},

			// Wage breakdown
			{Name: "wage_total", Locator: extract.Text(`#ID_chgn`)},
			{Name: "base_wage", Locator: extract.Text(`#ID_khky`)},
			{Name: "regular_allowances", Locator: extract.Text(`#ID_tgkTeate`)},
			{Name: "fixed_overtime_pay", Locator: extract.Text(`#ID_koteiZngyDai`)},
			{Name: "wage_type", Locator: extract.Text(`#ID_chgnKeitaiKbn`)},
			{Name: "commuting_allowance", Locator: extract.Text(`#ID_tsknTeate`)},
			{Name: "wage_closing_day", Locator: extract.Text(`#ID_chgnSkbi`)},
			{Name: "wage_payment_day", Locator: extract.Text(`#ID_chgnShrbi`)},
			{Name: "raise_system", Locator: extract.Text(`#ID_shokyuSd`)},
			{Name: "bonus_system", Locator: extract.Text(`#ID_shoyoSdNoUmu`)},
			{Name: "bonus_months", Locator: extract.Text(`#ID_shoyoTsukisu`)},

			// Hours and holidays
			{Name: "working_hours", Locator: extract.Text(`#ID_shgJn`)},
			{Name: "overtime_hours", Locator: extract.Text(`#ID_jkgiRodoJn`)},
			{Name: "break_time", Locator: extract.Text(`#ID_kyukeiJn`)},
			{Name: "annual_working_days", Locator: extract.Text(`#ID_nenkanKjsu`)},
			{Name: "holidays", Locator: extract.Text(`#ID_kyjs`)},
			{Name: "paid_leave", Locator: extract.Text(`#ID_nenjiYukyu`)},

			// Insurance and benefits
			{Name: "insurance", Locator: extract.Text(`#ID_knyHoken`)},
			{Name: "retirement_allowance", Locator: extract.Text(`#ID_tskinKyosai`)},
			{Name: "retirement_system", Locator: extract.Text(`#ID_tnskSd`)},
			{Name: "retirement_age", Locator: extract.Text(`#ID_tnenSd`)},
			{Name: "rehire_system", Locator: extract.Text(`#ID_saiKoyoSd`)},
			{Name: "trial_period", Locator: extract.Text(`#ID_trialKikan`)},
			{Name: "housing_available", Locator: extract.Text(`#ID_nyukyoKanoJtk`)},
			{Name: "childcare_facility", Locator: extract.Text(`#ID_ikujiShsts`)},

			// Requirements
			{Name: "required_education", Locator: extract.Text(`#ID_grki`)},
			{Name: "required_experience", Locator: extract.Text(`#ID_hynaKiknt`)},
			{Name: "required_licenses", Locator: extract.Text(`#ID_hynaMenkyoSkku`)},
			{Name: "age_limit", Locator: extract.Text(`#ID_nenreiSegn`)},
			{Name: "age_limit_reason", Locator: extract.Text(`#ID_nenreiSegnNoRy`)},

			// Openings and selection
			{Name: "openings", Locator: extract.Text(`#ID_sykeninsu`)},
			{Name: "selection_method", Locator: extract.Text(`#ID_selectHoho`)},
			{Name: "selection_result_timing", Locator: extract.Text(`#ID_selectKekkaTsuchi`)},
			{Name: "application_documents", Locator: extract.Text(`#ID_oboShoruitou`)},
			{Name: "selection_location", Locator: extract.Text(`#ID_selectBs`)},

			// Contact
			{Name: "contact_department", Locator: extract.Text(`#ID_ttsYkm`)},
			{Name: "contact_name", Locator: extract.Text(`#ID_ttsTts`)},
			{Name: "contact_telephone", Locator: extract.Text(`#ID_ttsTel`)},
			{Name: "contact_fax", Locator: extract.Text(`#ID_ttsFax`)},

			// Employer profile
			{Name: "office_reception", Locator: extract.Text(`#ID_juriAtsh`)},
			{Name: "industry_classification", Locator: extract.Text(`#ID_sngBrui`)},
			{Name: "office_name", Locator: extract.Text(`#ID_jgshMei`)},
			{Name: "office_zipcode", Locator: extract.Text(`#ID_jgshJshoYbn`)},
			{Name: "office_address", Locator: extract.Text(`#ID_jgshJsho`)},
			{Name: "office_homepage", Locator: extract.Attribute(`#ID_hp a`, "href")},
			{Name: "employees_total", Locator: extract.Text(`#ID_jgisuKigyoZentai`)},
			{Name: "employees_location", Locator: extract.Text(`#ID_jgisuShgBs`)},
			{Name: "employees_female", Locator: extract.Text(`#ID_jgisuUchJosei`)},
			{Name: "employees_parttime", Locator: extract.Text(`#ID_jgisuUchPart`)},
			{Name: "establishment_year", Locator: extract.Text(`#ID_setsuritsuNen`)},
			{Name: "capital", Locator: extract.Text(`#ID_shkn`)},
			{Name: "labor_union", Locator: extract.Text(`#ID_rodoKumiai`)},
			{Name: "business_content", Locator: extract.Text(`#ID_jigyoNy`)},
			{Name: "company_features", Locator: extract.Text(`#ID_kaishaNoTokucho`)},
			{Name: "representative_title", Locator: extract.Text(`#ID_yshokumei`)},
			{Name: "representative_name", Locator: extract.Text(`#ID_dhshaMei`)},
			{Name: "corporate_number", Locator: extract.Text(`#ID_hoNinNo`)},

			// Notes
			{Name: "special_notes", Locator: extract.Text(`#ID_kjTokki`)},
			{Name: "remarks", Locator: extract.Text(`#ID_bikou`)},
		},
	}
}

// DefaultEnrichColumns is the detail column set merged into listing rows
// when enrichment is run without an explicit column list.
var DefaultEnrichColumns = []string{
	"office_reception", "industry_classification", "office_name", "office_zipcode",
	"office_address", "office_homepage", "employees_total", "employees_location",
	"employees_female", "employees_parttime", "establishment_year", "capital",
	"labor_union", "business_content", "company_features", "representative_title",
	"representative_name", "corporate_number",
}
