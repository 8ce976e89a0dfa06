package content

import (
	"context"
	"math/rand"
	"regexp"
	"strings"

	"github.com/mystylekpop/snsbot/internal/draft"
)

var _ Generator = (*TemplateGenerator)(nil)

// TemplateGenerator is the deterministic fallback: it fills fixed
// sentence templates with a rotating artist and emoji. No network, no
// failure modes beyond an empty template set.
type TemplateGenerator struct {
	templates []template
	artists   []string
	emojis    []string
	rand      *rand.Rand
}

type template struct {
	text      string
	formatKey string
	platforms map[draft.Platform]bool
}

var defaultArtists = []string{
	"뉴진스", "에스파", "아이브", "르세라핌", "세븐틴", "스트레이 키즈",
}

var defaultEmojis = []string{"✨", "🔥", "💜", "🖤", "🤍"}

var defaultTemplates = []template{
	{
		text:      "{emoji} {artist} 공항 패션 체크. 오버핏 실루엣에 포인트 컬러 하나, 이번 시즌 공식 그대로다. #KPOPfashion #{artist_tag}",
		formatKey: "airport_fashion",
		platforms: map[draft.Platform]bool{draft.PlatformX: true, draft.PlatformInstagram: true},
	},
	{
		text:      "{emoji} 이번 주 트렌드 믹스 — {artist} 스타일링에서 뽑은 세 가지 키워드를 정리했다. #weeklytrend #{artist_tag}",
		formatKey: "weekly_trend",
		platforms: map[draft.Platform]bool{draft.PlatformX: true},
	},
	{
		text:      "{emoji} {artist} 무대 의상 아카이브. 컨셉과 실루엣이 만나는 지점을 본다. #stagelook #{artist_tag}",
		formatKey: "style_editorial",
		platforms: map[draft.Platform]bool{draft.PlatformX: true, draft.PlatformInstagram: true},
	},
	{
		text:      "{artist} 컴백 룩 예측 {emoji} 티저 무드보드 기준으로 세 가지 방향을 그려봤다. #comeback #{artist_tag}",
		formatKey: "comeback_lookbook",
		platforms: map[draft.Platform]bool{draft.PlatformX: true, draft.PlatformInstagram: true},
	},
	{
		text:      "오늘의 오픈 토크 {emoji} {artist} 스타일 중 최고의 룩은? 리플로 의견을 들려달라. #fandiscussion #{artist_tag}",
		formatKey: "fan_discussion",
		platforms: map[draft.Platform]bool{draft.PlatformX: true},
	},
}

var artistTagRE = regexp.MustCompile(`[^a-zA-Z0-9가-힣]`)

// NewTemplateGenerator returns the fallback generator with the built-in
// template set.
func NewTemplateGenerator(seed int64) *TemplateGenerator {
	return &TemplateGenerator{
		templates: defaultTemplates,
		artists:   defaultArtists,
		emojis:    defaultEmojis,
		rand:      rand.New(rand.NewSource(seed)),
	}
}

func (g *TemplateGenerator) Name() string { return "template" }

func (g *TemplateGenerator) GenerateContent(_ context.Context, platform draft.Platform, formatKey string) (*Generated, error) {
	candidates := make([]template, 0, len(g.templates))
	for _, t := range g.templates {
		if !t.platforms[platform] {
			continue
		}
		if formatKey != "" && t.formatKey != formatKey {
			continue
		}
		candidates = append(candidates, t)
	}
	// No exact format match: any template for the platform beats an
	// empty slot.
	if len(candidates) == 0 {
		for _, t := range g.templates {
			if t.platforms[platform] {
				candidates = append(candidates, t)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoContent
	}

	tmpl := candidates[g.rand.Intn(len(candidates))]
	artist := g.artists[g.rand.Intn(len(g.artists))]
	emoji := g.emojis[g.rand.Intn(len(g.emojis))]

	text := strings.NewReplacer(
		"{artist}", artist,
		"{emoji}", emoji,
		"{artist_tag}", artistTagRE.ReplaceAllString(artist, "_"),
	).Replace(tmpl.text)

	return &Generated{Text: text, Artist: artist}, nil
}
