// Package scenarios holds the suites run against the Selenium practice
// pages of tutorialspoint.
package scenarios

import "practice_automation/domain/entities"

// Pages, relative to the practice base URL.
const (
	ButtonsPage        = "buttons.php"
	RadioPage          = "radio-button.php"
	TextBoxPage        = "text-box.php"
	UploadDownloadPage = "upload-download.php"
)

// Buttons page.
var (
	ClickMeButton       = entities.XPath("//button[normalize-space()='Click Me']")
	RightClickMeButton  = entities.XPath("//button[contains(text(), 'Right Click Me')]")
	DoubleClickMeButton = entities.XPath("//button[contains(text(), 'Double Click Me')]")
	ClickMessage        = entities.ID("welcomeDiv")
	DoubleClickMessage  = entities.ID("doublec")
	AnyButton           = entities.TagName("button")
	ButtonLike          = entities.CSS("input[type='button'], button, div[role='button']")
)

const (
	ButtonsTitle           = "Selenium Practice - Buttons"
	ClickMessageText       = "You have done a dynamic click"
	DoubleClickMessageText = "You have Double clicked"
)

// ButtonLabels are the texts of the first three buttons.
var ButtonLabels = []string{"Click Me", "Right Click Me", "Double Click Me"}

// Radio button page.
var (
	RadioYes        = entities.XPath("//input[@value='igottwo']")
	RadioImpressive = entities.XPath("//input[@value='igotthree']")
	RadioNo         = entities.XPath("//div[@class='col-md-8 col-lg-8 col-xl-8']//div[5]")
	RadioNoInput    = entities.XPath(RadioNo.Value + "//input")
	YesMessage      = entities.ID("check")
	ImpressiveMsg   = entities.ID("check1")
)

const (
	YesMessageText        = "You have checked Yes"
	ImpressiveMessageText = "You have checked Impressive"
)

// Text box page.
var (
	FullNameField = entities.XPath("//input[@id='fullname']")
	EmailField    = entities.XPath("//input[@id='email']")
	AddressField  = entities.ID("address")
	PasswordField = entities.ID("password")
	SubmitButton  = entities.XPath("//input[@value='Submit']")
)

// FormValues is what the text box scenario types, field by field.
var FormValues = []struct {
	Field entities.Selector
	Value string
}{
	{FullNameField, "Test User"},
	{EmailField, "test@example.com"},
	{AddressField, "Test Address 123"},
	{PasswordField, "TestPass123"},
}

const (
	SiteTitle          = "Selenium Practice"
	FormSuccessCapture = "form_success.png"
)

// Upload and download page.
var (
	DownloadButton = entities.ID("downloadButton")
	UploadInput    = entities.ID("uploadFile")
	UploadLabel    = entities.CSS("label.form-file-label")
	PageBody       = entities.TagName("body")
)

// Fixture files written before the transfer suite runs.
const (
	TextFixture  = "test_upload.txt"
	ImageFixture = "sampleFile.jpeg"
)

var (
	TextFixtureContent  = []byte("Test content for upload")
	ImageFixtureContent = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01")
)
