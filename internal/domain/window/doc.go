/*
Package window owns the visibility lifecycle of the single main window.

Every mutation from the tray event loop and from command handlers goes
through Manager, which serialises them under one lock and reads the
current visibility from the host rather than caching it.

Close requests are resolved by a CloseBehavior chosen per platform:
macOS hides the window and keeps the process in the tray, other
platforms let the close proceed and exit.
*/
package window
