package windows

// HRESULT values returned from provider methods.
const (
	sOK                    uint32 = 0x00000000
	eNotImpl               uint32 = 0x80004001
	eNoInterface           uint32 = 0x80004002
	ePointer               uint32 = 0x80004003
	eInvalidArg            uint32 = 0x80070057
	uiaElementNotEnabled   uint32 = 0x80040200
	uiaElementNotAvailable uint32 = 0x80040201
	uiaNotSupported        uint32 = 0x80040204
	uiaInvalidOperation    uint32 = 0x80131509
)

// Control type ids.
const (
	ctButton      int32 = 50000
	ctCheckBox    int32 = 50002
	ctComboBox    int32 = 50003
	ctEdit        int32 = 50004
	ctHyperlink   int32 = 50005
	ctImage       int32 = 50006
	ctListItem    int32 = 50007
	ctList        int32 = 50008
	ctMenu        int32 = 50009
	ctMenuBar     int32 = 50010
	ctMenuItem    int32 = 50011
	ctProgressBar int32 = 50012
	ctRadioButton int32 = 50013
	ctScrollBar   int32 = 50014
	ctSlider      int32 = 50015
	ctStatusBar   int32 = 50017
	ctTab         int32 = 50018
	ctTabItem     int32 = 50019
	ctText        int32 = 50020
	ctToolBar     int32 = 50021
	ctToolTip     int32 = 50022
	ctTree        int32 = 50023
	ctTreeItem    int32 = 50024
	ctCustom      int32 = 50025
	ctGroup       int32 = 50026
	ctDataItem    int32 = 50029
	ctDocument    int32 = 50030
	ctWindow      int32 = 50032
	ctPane        int32 = 50033
	ctHeaderItem  int32 = 50035
	ctTable       int32 = 50036
	ctSeparator   int32 = 50038
)

// Property ids.
const (
	propRuntimeID             int32 = 30000
	propBoundingRectangle     int32 = 30001
	propProcessID             int32 = 30002
	propControlType           int32 = 30003
	propLocalizedControlType  int32 = 30004
	propName                  int32 = 30005
	propHasKeyboardFocus      int32 = 30008
	propIsKeyboardFocusable   int32 = 30009
	propIsEnabled             int32 = 30010
	propAutomationID          int32 = 30011
	propClassName             int32 = 30012
	propHelpText              int32 = 30013
	propIsControlElement      int32 = 30016
	propIsContentElement      int32 = 30017
	propIsPassword            int32 = 30019
	propIsOffscreen           int32 = 30022
	propOrientation           int32 = 30023
	propFrameworkID           int32 = 30024
	propIsRequiredForForm     int32 = 30025
	propItemStatus            int32 = 30026
	propValueValue            int32 = 30045
	propValueIsReadOnly       int32 = 30046
	propRangeValueValue       int32 = 30047
	propRangeValueIsReadOnly  int32 = 30048
	propRangeValueMinimum     int32 = 30049
	propRangeValueMaximum     int32 = 30050
	propExpandCollapseState   int32 = 30070
	propSelectionItemSelected int32 = 30079
	propToggleState           int32 = 30086
	propAriaRole              int32 = 30101
	propIsDataValidForForm    int32 = 30103
	propProviderDescription   int32 = 30107
	propLiveSetting           int32 = 30135
	propFullDescription       int32 = 30159
	propHeadingLevel          int32 = 30173
	propIsDialog              int32 = 30174
)

// Control pattern ids.
const (
	patInvoke         int32 = 10000
	patValue          int32 = 10002
	patRangeValue     int32 = 10003
	patExpandCollapse int32 = 10005
	patSelectionItem  int32 = 10010
	patToggle         int32 = 10015
	patScrollItem     int32 = 10017
)

// Event ids.
const (
	evtStructureChanged  int32 = 20002
	evtFocusChanged      int32 = 20005
	evtInvoked           int32 = 20009
	evtElementSelected   int32 = 20012
	evtLiveRegionChanged int32 = 20024
	evtNotification      int32 = 20035
)

// StructureChangeType.
const (
	structChildAdded          int32 = 0
	structChildRemoved        int32 = 1
	structChildrenInvalidated int32 = 2
)

// NavigateDirection.
const (
	navParent          int32 = 0
	navNextSibling     int32 = 1
	navPreviousSibling int32 = 2
	navFirstChild      int32 = 3
	navLastChild       int32 = 4
)

// ProviderOptions.
const (
	optServerSideProvider int32 = 0x2
	optUseComThreading    int32 = 0x20
)

// ToggleState.
const (
	toggleOff int32 = 0
	toggleOn  int32 = 1
)

// ExpandCollapseState.
const (
	stateCollapsed int32 = 0
	stateExpanded  int32 = 1
	stateLeafNode  int32 = 3
)

// OrientationType.
const (
	orientNone       int32 = 0
	orientHorizontal int32 = 1
	orientVertical   int32 = 2
)

// NotificationKind and NotificationProcessing.
const (
	notifyKindOther           int32 = 4
	notifyImportantMostRecent int32 = 1
	notifyAll                 int32 = 2
)

// Heading levels are HeadingLevel_None followed by HeadingLevel1..9.
const headingLevelNone int32 = 80050

// uiaAppendRuntimeID prefixes runtime ids that UIA completes with the host
// window's id.
const uiaAppendRuntimeID int32 = 3

// Window message and object id used by UIA to find the root provider.
const (
	wmGetObject   = 0x003D
	uiaRootObject = -25
)

// frameworkID is reported as UIA_FrameworkIdPropertyId.
const frameworkID = "a11y-bridge"
