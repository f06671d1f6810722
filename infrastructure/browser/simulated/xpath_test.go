package simulated

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice_automation/domain/entities"
)

func xpathSite(body string) Site {
	return Site{"page.php": {HTML: "<html><head><title>x</title></head><body>" + body + "</body></html>"}}
}

func TestSession_XPathPredicatesApplyInOrder(t *testing.T) {
	ctx := context.Background()
	l := NewLauncher(WithSite(xpathSite(`<div id="plain">zero</div><div class="a">one</div><div class="a" id="second">two</div>`)))
	s := openAt(t, l, entities.SessionConfig{}, "page.php")

	el, err := s.Find(ctx, entities.XPath("//div[@class='a'][2]"))
	require.NoError(t, err)
	text, err := el.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", text)

	el, err = s.Find(ctx, entities.XPath("//div[@id='second']/preceding-sibling::div[1]"))
	require.NoError(t, err)
	text, err = el.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", text)

	all, err := s.FindAll(ctx, entities.XPath("//div"))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSession_XPathQuotedLiteral(t *testing.T) {
	ctx := context.Background()
	l := NewLauncher(WithSite(xpathSite(`<div title='say "hi"'>greeting</div>`)))
	s := openAt(t, l, entities.SessionConfig{}, "page.php")

	el, err := s.Find(ctx, entities.XPath(`//div[@title='say "hi"']`))
	require.NoError(t, err)
	text, err := el.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "greeting", text)
}

func TestSession_XPathTextPredicates(t *testing.T) {
	ctx := context.Background()
	s := openAt(t, NewLauncher(), entities.SessionConfig{}, "buttons.php")

	click, err := s.FindAll(ctx, entities.XPath("//button[normalize-space()='Click Me']"))
	require.NoError(t, err)
	assert.Len(t, click, 1)

	containing, err := s.FindAll(ctx, entities.XPath("//button[contains(text(), 'Click Me')]"))
	require.NoError(t, err)
	assert.Len(t, containing, 3)
}

func TestSession_XPathSeesScriptMutations(t *testing.T) {
	ctx := context.Background()
	s := openAt(t, NewLauncher(), entities.SessionConfig{}, "radio-button.php")

	yes, err := s.Find(ctx, entities.XPath("//input[@value='igottwo']"))
	require.NoError(t, err)
	require.NoError(t, yes.Click(ctx))

	msg, err := s.Find(ctx, entities.XPath("//div[@id='check' and not(@style)]"))
	require.NoError(t, err)
	text, err := msg.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "You have checked Yes", text)
}

func TestSession_XPathInvalidExpression(t *testing.T) {
	s := openAt(t, NewLauncher(), entities.SessionConfig{}, "buttons.php")

	_, err := s.Find(context.Background(), entities.XPath("//div[@id='x'"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrNoSuchElement)
	assert.Contains(t, err.Error(), "invalid xpath")
}
